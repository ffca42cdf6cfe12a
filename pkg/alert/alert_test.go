package alert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elonfeng/aidigest/pkg/digest"
	"github.com/elonfeng/aidigest/pkg/source"
)

type stubNotifier struct {
	name  string
	err   error
	calls int
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) Send(_ context.Context, _ *digest.Digest) error {
	s.calls++
	return s.err
}

func TestManagerBroadcastContinuesOnError(t *testing.T) {
	failing := &stubNotifier{name: "slack", err: errors.New("boom")}
	ok := &stubNotifier{name: "webhook"}
	m := NewManager([]Notifier{failing, ok})

	if !m.HasNotifiers() {
		t.Fatal("expected notifiers")
	}

	err := m.Broadcast(context.Background(), testDigest(t))
	if err == nil || !strings.Contains(err.Error(), "slack: boom") {
		t.Fatalf("expected wrapped slack error, got %v", err)
	}
	if ok.calls != 1 {
		t.Errorf("expected second notifier to run once, got %d", ok.calls)
	}
}

func TestManagerEmpty(t *testing.T) {
	m := NewManager(nil)
	if m.HasNotifiers() {
		t.Error("expected no notifiers")
	}
	if err := m.Broadcast(context.Background(), testDigest(t)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWebhookSignsPayload(t *testing.T) {
	var gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature-256")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := testDigest(t)
	if err := NewWebhook(srv.URL, "s3cret").Send(context.Background(), d); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotSig != Sign("s3cret", gotBody) {
		t.Errorf("signature mismatch: %s", gotSig)
	}

	var payload WebhookPayload
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Subject != d.Subject {
		t.Errorf("subject = %q", payload.Subject)
	}
	if payload.Date != "2026-03-01" {
		t.Errorf("date = %q", payload.Date)
	}
	if len(payload.New) != 1 || payload.New[0].Link != "https://example.com/agents" {
		t.Errorf("unexpected articles %+v", payload.New)
	}
	if len(payload.Best) != 1 || payload.Best[0].Source != "Lab Blog" {
		t.Errorf("unexpected best articles %+v", payload.Best)
	}
	if payload.Categories[source.CategoryTutorial] != 1 {
		t.Errorf("unexpected categories %v", payload.Categories)
	}
}

func TestWebhookStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := NewWebhook(srv.URL, "").Send(context.Background(), testDigest(t)); err == nil {
		t.Fatal("expected status error")
	}
}

// rawJSON encodes v without HTML escaping so tests can match Slack markup.
func rawJSON(t *testing.T, v any) string {
	t.Helper()
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return b.String()
}

func TestSlackPayload(t *testing.T) {
	var payload struct {
		Text   string           `json:"text"`
		Blocks []map[string]any `json:"blocks"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}))
	defer srv.Close()

	d := testDigest(t)
	if err := NewSlack(srv.URL).Send(context.Background(), d); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if payload.Text != d.Subject {
		t.Errorf("text = %q", payload.Text)
	}

	raw := rawJSON(t, payload.Blocks)
	for _, want := range []string{
		"1 new articles",
		"Lerninhalt/Tutorial 1",
		"<https://example.com/agents|*LLM agents explained*>",
		"Bestes pro Quelle",
		"*Lab Blog*",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("blocks missing %q", want)
		}
	}
}

func TestSlackPayloadEmptyAndOverflow(t *testing.T) {
	empty := slackPayload(&digest.Digest{Subject: "s"})
	raw := rawJSON(t, empty)
	if !strings.Contains(raw, "keine neuen Artikel") {
		t.Error("expected empty notice")
	}
	if strings.Contains(raw, "Bestes pro Quelle") {
		t.Error("best section must be omitted when empty")
	}

	d := &digest.Digest{Subject: "s"}
	for i := 0; i < slackListLimit+3; i++ {
		d.New = append(d.New, source.Article{Title: fmt.Sprintf("t%d", i), Link: fmt.Sprintf("https://x.test/%d", i), Category: source.CategoryGeneral})
	}
	raw = rawJSON(t, slackPayload(d))
	if !strings.Contains(raw, "and 3 more") {
		t.Error("expected overflow note")
	}
	if strings.Contains(raw, fmt.Sprintf("https://x.test/%d", slackListLimit)) {
		t.Error("list was not capped")
	}
}

func TestSlackEscapesTitles(t *testing.T) {
	d := &digest.Digest{Subject: "s", New: []source.Article{{Title: "a <b> & c", Link: "https://x.test"}}}
	raw := rawJSON(t, slackPayload(d))
	if !strings.Contains(raw, "a &lt;b&gt; &amp; c") {
		t.Errorf("title not escaped: %s", raw)
	}
}

func TestDiscordPayload(t *testing.T) {
	var payload struct {
		Embeds []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Fields      []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"embeds"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := testDigest(t)
	if err := NewDiscord(srv.URL).Send(context.Background(), d); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(payload.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(payload.Embeds))
	}
	e := payload.Embeds[0]
	if e.Title != d.Subject {
		t.Errorf("title = %q", e.Title)
	}
	if !strings.Contains(e.Description, "(https://example.com/agents)") {
		t.Errorf("description missing link: %s", e.Description)
	}
	if !strings.Contains(e.Description, "Lerninhalt/Tutorial 1") {
		t.Errorf("description missing category counts: %s", e.Description)
	}
	if len(e.Fields) != 1 || e.Fields[0].Name != "Lab Blog" {
		t.Fatalf("expected one best-per-source field, got %+v", e.Fields)
	}
	if !strings.Contains(e.Fields[0].Value, "score 0") {
		t.Errorf("field missing score: %s", e.Fields[0].Value)
	}
}

func TestDiscordPayloadEmpty(t *testing.T) {
	p := discordPayload(&digest.Digest{Subject: "s"})
	embed := p["embeds"].([]map[string]any)[0]
	if !strings.Contains(embed["description"].(string), "keine neuen Artikel") {
		t.Errorf("unexpected description %v", embed["description"])
	}
	if _, ok := embed["fields"]; ok {
		t.Error("fields must be omitted without best articles")
	}
}

func TestCategoryLine(t *testing.T) {
	d := &digest.Digest{New: []source.Article{
		{Category: source.CategoryGeneral},
		{Category: source.CategoryResearch},
		{Category: source.CategoryResearch},
	}}
	if got := categoryLine(d); got != "Research 2 · General 1" {
		t.Errorf("categoryLine = %q", got)
	}
	if got := categoryLine(&digest.Digest{}); got != "" {
		t.Errorf("empty digest: %q", got)
	}
}
