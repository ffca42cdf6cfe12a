// Package digest renders the daily digest message.
package digest

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/elonfeng/aidigest/pkg/source"
	"github.com/elonfeng/aidigest/pkg/text"
)

// Digest is one rendered digest, ready for delivery.
type Digest struct {
	Subject string           `json:"subject"`
	Date    time.Time        `json:"date"`
	New     []source.Article `json:"new"`
	Best    []source.Article `json:"best"`
	HTML    string           `json:"-"`
	Text    string           `json:"-"`
}

// Composer renders digests.
type Composer struct {
	subject       string
	summaryLength int
	html          *htmltemplate.Template
	text          *texttemplate.Template
}

// NewComposer creates a composer. Summaries are cut to summaryLength runes.
func NewComposer(subject string, summaryLength int) *Composer {
	if subject == "" {
		subject = "AI Digest"
	}
	if summaryLength <= 0 {
		summaryLength = 200
	}

	c := &Composer{subject: subject, summaryLength: summaryLength}
	funcs := map[string]any{"summary": c.summary}
	c.html = htmltemplate.Must(htmltemplate.New("digest").Funcs(funcs).Parse(htmlTemplate))
	c.text = texttemplate.Must(texttemplate.New("digest").Funcs(funcs).Parse(textTemplate))
	return c
}

// Compose renders the new articles followed by the best article of each
// source. With no new articles a notice takes the place of the first list.
func (c *Composer) Compose(newArticles, best []source.Article, date time.Time) (*Digest, error) {
	d := &Digest{
		Subject: fmt.Sprintf("%s – %s", c.subject, date.Format("2006-01-02")),
		Date:    date,
		New:     newArticles,
		Best:    best,
	}

	var buf bytes.Buffer
	if err := c.html.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render html digest: %w", err)
	}
	d.HTML = buf.String()

	buf.Reset()
	if err := c.text.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render text digest: %w", err)
	}
	d.Text = buf.String()

	return d, nil
}

func (c *Composer) summary(s string) string {
	cut, truncated := text.Truncate(s, c.summaryLength)
	if truncated {
		return cut + "..."
	}
	return cut
}
