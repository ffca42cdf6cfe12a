package text

import (
	"strings"
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"hello", "hello"},
		{"  hello   world  ", "hello world"},
		{"line\none\ttab", "line one tab"},
		{"a\r\n\r\n  b", "a b"},
		{"non breaking", "non breaking"},
	}
	for _, tt := range tests {
		got := Normalize(tt.input)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeProperties(t *testing.T) {
	inputs := []string{
		"",
		"\t\t",
		"  Attention   Is All\nYou   Need ",
		"<p>\n  markup  leftovers\n</p>",
		"ünïcödé spaces here",
	}
	for _, in := range inputs {
		out := Normalize(in)
		if out != strings.TrimSpace(out) {
			t.Errorf("Normalize(%q) = %q has leading or trailing whitespace", in, out)
		}
		prevSpace := false
		for _, r := range out {
			isSpace := unicode.IsSpace(r)
			if isSpace && prevSpace {
				t.Errorf("Normalize(%q) = %q contains a whitespace run", in, out)
				break
			}
			prevSpace = isSpace
		}
		if again := Normalize(out); again != out {
			t.Errorf("Normalize is not idempotent: %q -> %q -> %q", in, out, again)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input   string
		n       int
		want    string
		wantCut bool
	}{
		{"short", 10, "short", false},
		{"exactly ten", 11, "exactly ten", false},
		{"this is a long string", 7, "this is", true},
		{"", 5, "", false},
		{"abc", 0, "", true},
	}
	for _, tt := range tests {
		got, cut := Truncate(tt.input, tt.n)
		if got != tt.want || cut != tt.wantCut {
			t.Errorf("Truncate(%q, %d) = (%q, %v), want (%q, %v)", tt.input, tt.n, got, cut, tt.want, tt.wantCut)
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	got, cut := Truncate("Größenänderung", 4)
	if got != "Größ" || !cut {
		t.Errorf("Truncate by rune = (%q, %v), want (%q, true)", got, cut, "Größ")
	}
}

func TestLower(t *testing.T) {
	if got := Lower("Machine LEARNING Über"); got != "machine learning über" {
		t.Errorf("Lower = %q", got)
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"No tags here", "No tags here"},
		{"<p>Hello</p>", "Hello"},
		{"<p>First</p><p>Second</p>", "First Second"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"Fish &amp; Chips", "Fish & Chips"},
		{"<div>text<script>alert(1)</script></div>", "text"},
		{"Intro to machine <b>learn</b>ing with <em>L</em>LMs", "Intro to machine learning with LLMs"},
		{`Read the <a href="/x">pa</a>per`, "Read the paper"},
		{"line one<br>line two", "line one line two"},
		{"<ul><li>one</li><li>two</li></ul>", "one two"},
		{"<h2>Title</h2>Body", "Title Body"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Normalize(StripMarkup(tt.input))
		if got != tt.want {
			t.Errorf("StripMarkup(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
