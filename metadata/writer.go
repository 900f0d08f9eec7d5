// Package metadata writes the publishing sidecar files next to each video:
// title, formatted description, tag list and a combined json.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ia-video-creator/config"
	"ia-video-creator/types"
)

type Writer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Writer {
	return &Writer{cfg: cfg}
}

// Build assembles the metadata record from a script and its source trend
func (w *Writer) Build(script *types.Script, trend *types.Trend, durationMin float64) *types.Metadata {
	return &types.Metadata{
		Title:       script.VideoTitle,
		Description: script.Description,
		Tags:        script.Tags,
		ThumbText:   script.ThumbText,
		Topic:       trend.Title,
		TrendSource: trend.Source,
		CreatedAt:   time.Now().Format("2006-01-02 15:04"),
		DurationMin: durationMin,
		Channel:     w.cfg.Script.ChannelName,
	}
}

// Save writes titulo/descricao/tags text files plus the combined json.
// Returns the created file paths keyed by kind.
func (w *Writer) Save(ctx context.Context, meta *types.Metadata, outDir string) (map[string]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	base := fmt.Sprintf("%s_%s", w.cfg.Output.Prefix, time.Now().Format("20060102_150405"))
	created := make(map[string]string)

	titlePath := filepath.Join(outDir, base+"_titulo.txt")
	if err := os.WriteFile(titlePath, []byte(meta.Title), 0644); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	created["titulo"] = titlePath

	desc := w.FormatDescription(meta)
	descPath := filepath.Join(outDir, base+"_descricao.txt")
	if err := os.WriteFile(descPath, []byte(desc), 0644); err != nil {
		return nil, fmt.Errorf("write description: %w", err)
	}
	created["descricao"] = descPath

	// comma-joined so it pastes straight into the YouTube tag box
	tagsPath := filepath.Join(outDir, base+"_tags.txt")
	if err := os.WriteFile(tagsPath, []byte(strings.Join(meta.Tags, ",")), 0644); err != nil {
		return nil, fmt.Errorf("write tags: %w", err)
	}
	created["tags"] = tagsPath

	full := map[string]any{
		"titulo":             meta.Title,
		"descricao_completa": desc,
		"tags":               meta.Tags,
		"thumb_texto":        meta.ThumbText,
		"tema":               meta.Topic,
		"fonte_trend":        meta.TrendSource,
		"data_criacao":       meta.CreatedAt,
		"duracao_minutos":    meta.DurationMin,
		"canal":              meta.Channel,
		"arquivos":           created,
	}
	data, err := json.MarshalIndent(full, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	jsonPath := filepath.Join(outDir, base+"_metadata.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return nil, fmt.Errorf("write metadata json: %w", err)
	}
	created["json"] = jsonPath

	log.Printf("[metadata] ✅ Saved %d files to %s", len(created), outDir)
	return created, nil
}

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// FormatDescription builds the full YouTube description block
func (w *Writer) FormatDescription(meta *types.Metadata) string {
	var hashtags []string
	for i, t := range meta.Tags {
		if i >= 10 {
			break
		}
		hashtags = append(hashtags, "#"+strings.ReplaceAll(t, " ", ""))
	}

	date := meta.CreatedAt
	if i := strings.Index(date, " "); i > 0 {
		date = date[:i]
	}

	return fmt.Sprintf(`%s

%s
📌 Assunto: %s
📅 Publicado em: %s
⏱️ Duração: ~%.0f minutos
%s

🔔 INSCREVA-SE no canal %s e ative o sininho!
👍 Deixe seu LIKE se o vídeo foi útil!
💬 Comente sua opinião sobre o assunto!

%s

%s

#CienciaTecnologia #Ciencia #Tecnologia #Educacao`,
		meta.Description,
		divider, meta.Topic, date, meta.DurationMin, divider,
		meta.Channel,
		divider,
		strings.Join(hashtags, " "))
}

// PrintSummary shows the generated metadata with a quick SEO check on the
// title length
func (w *Writer) PrintSummary(out io.Writer, meta *types.Metadata) {
	line := strings.Repeat("=", 62)
	seo := "OK"
	if len([]rune(meta.Title)) > 60 {
		seo = "LONGO - considere encurtar"
	}
	tags := meta.Tags
	if len(tags) > 6 {
		tags = tags[:6]
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "  METADADOS GERADOS")
	fmt.Fprintln(out, line)
	fmt.Fprintf(out, "  Titulo   : %s\n", meta.Title)
	fmt.Fprintf(out, "  Thumb    : %s\n", meta.ThumbText)
	fmt.Fprintf(out, "  Tags     : %s...\n", strings.Join(tags, ", "))
	fmt.Fprintf(out, "  SEO      : Titulo com %d chars (%s)\n", len([]rune(meta.Title)), seo)
	fmt.Fprintln(out, line)
}
