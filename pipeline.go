package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ia-video-creator/config"
	"ia-video-creator/media"
	"ia-video-creator/metadata"
	"ia-video-creator/narrator"
	"ia-video-creator/script"
	"ia-video-creator/thumb"
	"ia-video-creator/trends"
	"ia-video-creator/types"
	"ia-video-creator/upload"
	"ia-video-creator/video"
)

type pipelineOptions struct {
	// Topic skips trend discovery and uses this theme directly
	Topic string
	// Trend is a pre-selected trend (batch mode)
	Trend *types.Trend
	// Auto skips every human interaction
	Auto bool
	// ExportDir overrides the configured output dir (batch mode)
	ExportDir string
}

// runPipeline executes the six pipeline steps for one video.
func runPipeline(ctx context.Context, cfg *config.Config, opts pipelineOptions) error {
	exportDir := cfg.Output.Dir
	if opts.ExportDir != "" {
		exportDir = opts.ExportDir
	}
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	runID := uuid.NewString()[:8]
	workDir, err := os.MkdirTemp("", "ia_video_")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	if !cfg.Output.KeepTemp {
		defer os.RemoveAll(workDir)
	}

	ts := time.Now().Format("20060102_150405")
	state := &types.PipelineState{
		RunID:     runID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		saveJSON(filepath.Join(exportDir, fmt.Sprintf("pipeline_state_%s.json", runID)), state)
	}()

	log.Printf("🎬 Run %s — export: %s", runID, exportDir)

	// ─── PASSO 1: Trend ───
	trend, err := pickTrend(ctx, cfg, opts)
	if err != nil {
		state.Error = fmt.Sprintf("passo 1 trend: %v", err)
		return err
	}
	state.Trend = trend

	// ─── PASSO 2: Roteiro ───
	fmt.Printf("\n[PASSO 2/6] Gerando roteiro sobre: %s\n", trend.Title)
	roteiro, err := generateScript(ctx, cfg, trend, opts.Auto)
	if err != nil {
		state.Error = fmt.Sprintf("passo 2 roteiro: %v", err)
		return err
	}
	state.Script = roteiro
	saveJSON(filepath.Join(workDir, "script.json"), roteiro)

	// ─── PASSO 3: Mídia ───
	fmt.Println("\n[PASSO 3/6] Buscando imagens e vídeos no Pexels...")
	fetcher, err := media.New(cfg)
	if err != nil {
		state.Error = fmt.Sprintf("passo 3 mídia: %v", err)
		return err
	}
	sceneMedia := fetcher.FetchForScenes(ctx, roteiro.Scenes)

	var allImages []string
	for _, m := range sceneMedia {
		allImages = append(allImages, m.Images...)
	}

	// ─── PASSO 4: Narração ───
	fmt.Println("\n[PASSO 4/6] Gerando narração TTS...")
	narr := narrator.New(cfg)
	scenes, err := narr.NarrateScenes(ctx, roteiro.Scenes, workDir)
	if err != nil {
		state.Error = fmt.Sprintf("passo 4 narração: %v", err)
		return err
	}
	roteiro.Scenes = scenes

	// ─── PASSO 5: Vídeo ───
	fmt.Println("\n[PASSO 5/6] Montando vídeo final...")
	videoPath := filepath.Join(exportDir, fmt.Sprintf("%s_%s.mp4", cfg.Output.Prefix, ts))
	editor := video.New(cfg)
	if _, err := editor.Compose(ctx, roteiro.Scenes, sceneMedia, workDir, videoPath); err != nil {
		state.Error = fmt.Sprintf("passo 5 vídeo: %v", err)
		return err
	}
	state.VideoFile = videoPath

	// ─── PASSO 6: Thumbnail + Metadados ───
	fmt.Println("\n[PASSO 6/6] Gerando thumbnail e metadados...")
	thumbPath := filepath.Join(exportDir, fmt.Sprintf("%s_%s_thumb.jpg", cfg.Output.Prefix, ts))
	if _, err := thumb.New(cfg).Generate(ctx, roteiro.ThumbText, allImages, thumbPath); err != nil {
		log.Printf("⚠️ Thumbnail falhou: %v — continuando sem thumb", err)
		thumbPath = ""
	}
	state.ThumbFile = thumbPath

	durationMin := videoDurationMin(ctx, videoPath, cfg)
	metaWriter := metadata.New(cfg)
	meta := metaWriter.Build(roteiro, trend, durationMin)
	files, err := metaWriter.Save(ctx, meta, exportDir)
	if err != nil {
		state.Error = fmt.Sprintf("passo 6 metadados: %v", err)
		return err
	}
	state.Metadata = meta
	metaWriter.PrintSummary(os.Stdout, meta)

	// ─── Upload opcional ───
	if cfg.Upload.Enabled {
		fmt.Println("\n[UPLOAD] Enviando para o YouTube...")
		videoID, videoURL, err := upload.New(cfg).Run(ctx, videoPath, thumbPath, meta)
		if err != nil {
			log.Printf("⚠️ Upload falhou: %v — vídeo continua disponível localmente", err)
		} else {
			state.YouTubeID = videoID
			state.YouTubeURL = videoURL
			_ = upload.LogUpload(videoID, videoURL, videoPath, exportDir, meta)
		}
	}

	printDone(videoPath, thumbPath, files, exportDir)
	return nil
}

// pickTrend resolves step 1: pre-selected trend, forced topic or the
// interactive picker.
func pickTrend(ctx context.Context, cfg *config.Config, opts pipelineOptions) (*types.Trend, error) {
	hunter := trends.New(cfg)

	if opts.Trend != nil {
		log.Printf("Tema: %s", opts.Trend.Title)
		return opts.Trend, nil
	}
	if opts.Topic != "" {
		log.Printf("Tema forçado: %s", opts.Topic)
		t := trends.Manual(opts.Topic)
		return &t, nil
	}

	fmt.Println("\n[PASSO 1/6] Buscando trends de ciência e tecnologia...")
	picker := trends.NewPicker(hunter, os.Stdin, os.Stdout)
	trend := picker.Choose(func() []types.Trend { return hunter.FetchAll(ctx) })
	if trend == nil {
		return nil, fmt.Errorf("nenhuma trend selecionada")
	}
	return trend, nil
}

// generateScript runs the writer, with an approval loop in interactive mode
func generateScript(ctx context.Context, cfg *config.Config, trend *types.Trend, auto bool) (*types.Script, error) {
	writer := script.New(cfg)

	if auto {
		roteiro, err := writer.Generate(ctx, trend.Title, trend.Description)
		if err != nil {
			return nil, err
		}
		printScript(roteiro)
		log.Println("[AUTO] Roteiro aprovado automaticamente.")
		return roteiro, nil
	}

	reader := bufio.NewScanner(os.Stdin)
	for attempt := 1; attempt <= 3; attempt++ {
		roteiro, err := writer.Generate(ctx, trend.Title, trend.Description)
		if err != nil {
			return nil, err
		}
		if approveScript(reader, roteiro) {
			return roteiro, nil
		}
		fmt.Println("  Roteiro recusado. Gerando novo roteiro...")
	}
	return nil, fmt.Errorf("roteiro não aprovado após 3 tentativas")
}

func printScript(s *types.Script) {
	line := strings.Repeat("=", 62)
	fmt.Println("\n" + line)
	fmt.Println("  ROTEIRO GERADO — REVISÃO")
	fmt.Println(line)
	tags := s.Tags
	if len(tags) > 6 {
		tags = tags[:6]
	}
	fmt.Printf("  Título  : %s\n", s.VideoTitle)
	fmt.Printf("  Thumb   : %s\n", s.ThumbText)
	fmt.Printf("  Tags    : %s\n", strings.Join(tags, ", "))
	fmt.Printf("  Cenas   : %d\n", len(s.Scenes))
	fmt.Printf("  Palavras: ~%d\n", len(strings.Fields(s.FullNarration)))
	fmt.Println()
	for _, c := range s.Scenes {
		preview := c.Narration
		if len([]rune(preview)) > 100 {
			preview = string([]rune(preview)[:100]) + "..."
		}
		fmt.Printf("  [%d] %s\n       %s\n", c.Number, c.Title, preview)
	}
	fmt.Println()
}

// approveScript shows the script and asks s/n/e. "e" edits the title and
// approves.
func approveScript(in *bufio.Scanner, s *types.Script) bool {
	printScript(s)
	for {
		fmt.Print("  Aprovar roteiro e continuar? [s/n/e=editar título]: ")
		if !in.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "s":
			return true
		case "n":
			return false
		case "e":
			fmt.Printf("  Novo título [%s]: ", s.VideoTitle)
			if in.Scan() {
				if novo := strings.TrimSpace(in.Text()); novo != "" {
					s.VideoTitle = novo
				}
			}
			return true
		}
		fmt.Println("  Digite s, n ou e.")
	}
}

func videoDurationMin(ctx context.Context, videoPath string, cfg *config.Config) float64 {
	if dur, err := video.ProbeDurationSec(ctx, videoPath); err == nil {
		return dur / 60
	}
	return float64(cfg.Script.TargetDurationMin)
}

func printDone(videoPath, thumbPath string, files map[string]string, exportDir string) {
	line := strings.Repeat("=", 62)
	fmt.Println("\n" + line)
	fmt.Println("  PIPELINE CONCLUÍDO COM SUCESSO!")
	fmt.Println(line)
	fmt.Printf("  Vídeo    : %s\n", videoPath)
	fmt.Printf("  Thumb    : %s\n", thumbPath)
	fmt.Printf("  Título   : %s\n", files["titulo"])
	fmt.Printf("  Descrição: %s\n", files["descricao"])
	fmt.Printf("  Tags     : %s\n", files["tags"])
	fmt.Printf("  JSON     : %s\n", files["json"])
	fmt.Println(line)
	fmt.Printf("\n  Tudo salvo em: %s\n", exportDir)
}

func saveJSON(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal JSON for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
