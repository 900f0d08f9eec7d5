package trends

import (
	"bytes"
	"strings"
	"testing"

	"ia-video-creator/config"
	"ia-video-creator/types"
)

func testTrends() []types.Trend {
	return []types.Trend{
		{Title: "Fusão Nuclear", Source: "hackernews", Score: 80},
		{Title: "Telescópio James Webb", Source: "reddit/r/space", Score: 60},
	}
}

func TestChoosePicksByNumber(t *testing.T) {
	var out bytes.Buffer
	p := NewPicker(New(config.Default()), strings.NewReader("2\n"), &out)

	chosen := p.Choose(func() []types.Trend { return testTrends() })
	if chosen == nil {
		t.Fatal("expected a trend")
	}
	if chosen.Title != "Telescópio James Webb" {
		t.Errorf("chose %q", chosen.Title)
	}
}

func TestChooseRetriesInvalidInput(t *testing.T) {
	var out bytes.Buffer
	p := NewPicker(New(config.Default()), strings.NewReader("99\nabc\n1\n"), &out)

	chosen := p.Choose(func() []types.Trend { return testTrends() })
	if chosen == nil || chosen.Title != "Fusão Nuclear" {
		t.Fatalf("got %+v", chosen)
	}
	if !strings.Contains(out.String(), "Enter a number") {
		t.Error("invalid input should print a hint")
	}
}

func TestChooseManualEntry(t *testing.T) {
	var out bytes.Buffer
	p := NewPicker(New(config.Default()), strings.NewReader("m\nCRISPR\n"), &out)

	chosen := p.Choose(func() []types.Trend { return testTrends() })
	if chosen == nil {
		t.Fatal("expected a trend")
	}
	if chosen.Title != "CRISPR" || chosen.Source != "manual" {
		t.Errorf("got %q from %q", chosen.Title, chosen.Source)
	}
}

func TestChooseEmptyFetchFallsBackToManual(t *testing.T) {
	var out bytes.Buffer
	p := NewPicker(New(config.Default()), strings.NewReader("Grafeno\n"), &out)

	chosen := p.Choose(func() []types.Trend { return nil })
	if chosen == nil || chosen.Title != "Grafeno" {
		t.Fatalf("got %+v", chosen)
	}
}

func TestChooseEOFReturnsNil(t *testing.T) {
	var out bytes.Buffer
	p := NewPicker(New(config.Default()), strings.NewReader(""), &out)

	if chosen := p.Choose(func() []types.Trend { return testTrends() }); chosen != nil {
		t.Errorf("EOF should return nil, got %+v", chosen)
	}
}

func TestShortSource(t *testing.T) {
	if got := shortSource("reddit/r/space"); got != "space" {
		t.Errorf("got %q", got)
	}
	if got := shortSource("manual"); got != "manual" {
		t.Errorf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("0123456789abc", 10); got != "0123456789..." {
		t.Errorf("got %q", got)
	}
	if got := truncate("águas profundas são místicas", 12); got != "águas profun..." {
		t.Errorf("got %q", got)
	}
}
