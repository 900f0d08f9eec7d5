package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ia-video-creator/config"
	"ia-video-creator/types"
)

func sampleMeta() *types.Metadata {
	return &types.Metadata{
		Title:       "O Futuro da Fusão Nuclear",
		Description: "Neste vídeo exploramos a fusão nuclear.",
		Tags:        []string{"fusão nuclear", "energia", "ciência"},
		ThumbText:   "ENERGIA INFINITA",
		Topic:       "Fusão Nuclear",
		TrendSource: "hackernews",
		CreatedAt:   "2026-08-30 14:00",
		DurationMin: 5.4,
		Channel:     "Ciência & Tech",
	}
}

func TestBuild(t *testing.T) {
	cfg := config.Default()
	w := New(cfg)

	script := &types.Script{
		VideoTitle:  "Título",
		Description: "Descrição",
		Tags:        []string{"a", "b"},
		ThumbText:   "THUMB",
	}
	trend := &types.Trend{Title: "Tema", Source: "reddit/r/science"}

	meta := w.Build(script, trend, 6.2)
	if meta.Title != "Título" || meta.Topic != "Tema" {
		t.Errorf("got %q / %q", meta.Title, meta.Topic)
	}
	if meta.TrendSource != "reddit/r/science" {
		t.Errorf("TrendSource = %q", meta.TrendSource)
	}
	if meta.DurationMin != 6.2 {
		t.Errorf("DurationMin = %v", meta.DurationMin)
	}
	if meta.Channel != cfg.Script.ChannelName {
		t.Errorf("Channel = %q", meta.Channel)
	}
	if meta.CreatedAt == "" {
		t.Error("CreatedAt not set")
	}
}

func TestFormatDescription(t *testing.T) {
	w := New(config.Default())
	desc := w.FormatDescription(sampleMeta())

	for _, want := range []string{
		"Neste vídeo exploramos a fusão nuclear.",
		"📌 Assunto: Fusão Nuclear",
		"📅 Publicado em: 2026-08-30",
		"⏱️ Duração: ~5 minutos",
		"INSCREVA-SE no canal Ciência & Tech",
		"#fusãonuclear",
		"#CienciaTecnologia",
	} {
		if !strings.Contains(desc, want) {
			t.Errorf("description missing %q", want)
		}
	}
	if strings.Contains(desc, "14:00") {
		t.Error("published date should not include the time")
	}
}

func TestSave(t *testing.T) {
	cfg := config.Default()
	w := New(cfg)
	dir := t.TempDir()

	files, err := w.Save(context.Background(), sampleMeta(), dir)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	for _, kind := range []string{"titulo", "descricao", "tags", "json"} {
		path, ok := files[kind]
		if !ok {
			t.Fatalf("missing %s file", kind)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s file not written: %v", kind, err)
		}
	}

	title, _ := os.ReadFile(files["titulo"])
	if string(title) != "O Futuro da Fusão Nuclear" {
		t.Errorf("title file = %q", title)
	}

	tags, _ := os.ReadFile(files["tags"])
	if string(tags) != "fusão nuclear,energia,ciência" {
		t.Errorf("tags file = %q", tags)
	}

	data, _ := os.ReadFile(files["json"])
	var full map[string]any
	if err := json.Unmarshal(data, &full); err != nil {
		t.Fatalf("metadata json invalid: %v", err)
	}
	if full["tema"] != "Fusão Nuclear" {
		t.Errorf("tema = %v", full["tema"])
	}
	if full["canal"] != "Ciência & Tech" {
		t.Errorf("canal = %v", full["canal"])
	}

	if base := filepath.Base(files["titulo"]); !strings.HasPrefix(base, cfg.Output.Prefix+"_") {
		t.Errorf("file name should carry the output prefix: %q", base)
	}
}

func TestPrintSummary(t *testing.T) {
	w := New(config.Default())
	var out bytes.Buffer

	w.PrintSummary(&out, sampleMeta())
	s := out.String()

	if !strings.Contains(s, "METADADOS GERADOS") {
		t.Error("missing header")
	}
	if !strings.Contains(s, "O Futuro da Fusão Nuclear") {
		t.Error("missing title")
	}
	if !strings.Contains(s, "OK") {
		t.Error("short title should pass the SEO check")
	}

	long := sampleMeta()
	long.Title = strings.Repeat("muito longo ", 8)
	out.Reset()
	w.PrintSummary(&out, long)
	if !strings.Contains(out.String(), "LONGO") {
		t.Error("long title should be flagged")
	}
}
