package thumb

import (
	"strings"
	"testing"
)

func TestWrapTitle(t *testing.T) {
	lines := WrapTitle("ENERGIA INFINITA CHEGOU", 14, 2)
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %v", len(lines), lines)
	}
	for _, l := range lines {
		if len(l) > 18 {
			t.Errorf("line too long: %q", l)
		}
	}
}

func TestWrapTitleSingleLine(t *testing.T) {
	lines := WrapTitle("CURTO", 14, 2)
	if len(lines) != 1 || lines[0] != "CURTO" {
		t.Errorf("got %v", lines)
	}
}

func TestWrapTitleCapsLines(t *testing.T) {
	long := strings.Repeat("PALAVRA ", 10)
	lines := WrapTitle(long, 14, 2)
	if len(lines) > 2 {
		t.Errorf("got %d lines, want at most 2", len(lines))
	}
}

func TestEscapeDrawText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"10:30", `10\:30`},
		{"it's", `it\'s`},
		{"100%", `100\%`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		if got := EscapeDrawText(tt.in); got != tt.want {
			t.Errorf("EscapeDrawText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDrawTextFilter(t *testing.T) {
	got := drawText("/tmp/font.ttf", "NOVO", 65, 32, 36, "white")
	for _, want := range []string{"drawtext=", "text='NOVO'", "x=65", "y=32", "fontsize=36", "fontcolor=white", "fontfile=/tmp/font.ttf"} {
		if !strings.Contains(got, want) {
			t.Errorf("filter missing %q: %s", want, got)
		}
	}

	noFont := drawText("", "NOVO", 0, 0, 36, "white")
	if strings.Contains(noFont, "fontfile") {
		t.Errorf("fontfile should be omitted when unset: %s", noFont)
	}
}
