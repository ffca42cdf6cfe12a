package alert

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/elonfeng/aidigest/pkg/digest"
)

// Connection security modes for Mail.
const (
	SecurityTLS      = "tls"
	SecurityStartTLS = "starttls"
	SecurityNone     = "none"
)

// MailConfig configures SMTP delivery.
type MailConfig struct {
	Host     string
	Port     int
	Security string
	From     string
	// To may hold several addresses separated by commas.
	To       string
	Password string
}

// Mail sends digests as multipart HTML/text mail over SMTP.
type Mail struct {
	cfg       MailConfig
	timeout   time.Duration
	tlsConfig *tls.Config
	now       func() time.Time
}

// NewMail creates a new SMTP notifier. Authentication uses PLAIN with the
// sender address as user name.
func NewMail(cfg MailConfig) *Mail {
	return &Mail{
		cfg:       cfg,
		timeout:   30 * time.Second,
		tlsConfig: &tls.Config{ServerName: cfg.Host},
		now:       time.Now,
	}
}

func (m *Mail) Name() string { return "mail" }

func (m *Mail) recipients() []string {
	var out []string
	for _, r := range strings.Split(m.cfg.To, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func (m *Mail) Send(ctx context.Context, d *digest.Digest) error {
	to := m.recipients()
	if len(to) == 0 {
		return errors.New("no recipient configured")
	}

	msg, err := m.buildMessage(d, to)
	if err != nil {
		return err
	}

	c, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if m.cfg.Password != "" {
		if err := c.Auth(sasl.NewPlainClient("", m.cfg.From, m.cfg.Password)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(m.cfg.From, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt, nil); err != nil {
			return fmt.Errorf("RCPT TO %s failed: %w", rcpt, err)
		}
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(msg); err != nil {
		wc.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}

	// The message is accepted at this point; a failed QUIT is not an error.
	_ = c.Quit()
	return nil
}

func (m *Mail) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	dialer := &net.Dialer{Timeout: m.timeout}

	var (
		conn net.Conn
		err  error
	)
	if m.cfg.Security == SecurityTLS {
		td := &tls.Dialer{NetDialer: dialer, Config: m.tlsConfig}
		conn, err = td.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(m.timeout))
	}

	switch m.cfg.Security {
	case SecurityStartTLS:
		c, err := smtp.NewClientStartTLS(conn, m.tlsConfig)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("starttls with %s: %w", addr, err)
		}
		return c, nil
	case SecurityTLS, SecurityNone, "":
		return smtp.NewClient(conn), nil
	default:
		conn.Close()
		return nil, fmt.Errorf("unknown smtp security mode %q", m.cfg.Security)
	}
}

// buildMessage renders d as a multipart/alternative message with a plain
// text part followed by the HTML part.
func (m *Mail) buildMessage(d *digest.Digest, to []string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", d.Text},
		{"text/html; charset=utf-8", d.HTML},
	}
	for _, p := range parts {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", p.contentType)
		h.Set("Content-Transfer-Encoding", "quoted-printable")
		pw, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		qp := quotedprintable.NewWriter(pw)
		if _, err := qp.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("encode mime part: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("encode mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	var msg bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&msg, "%s: %s\r\n", k, v) }
	header("From", m.cfg.From)
	header("To", strings.Join(to, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", d.Subject))
	header("Date", m.now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", mime.FormatMediaType("multipart/alternative", map[string]string{"boundary": mw.Boundary()}))
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}
