package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ia-video-creator/config"
	"ia-video-creator/trends"
)

var (
	batchHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	batchOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f"))
	batchErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	batchDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

type batchResult struct {
	Title   string
	OK      bool
	Err     error
	Dir     string
	Elapsed time.Duration
}

// runBatch fetches every trend and processes each one without human
// interaction, one export subdirectory per topic. A failed trend is logged
// and the batch moves on.
func runBatch(ctx context.Context, cfg *config.Config) error {
	fmt.Println("\n[AUTO] Buscando todas as trends disponíveis...")
	hunter := trends.New(cfg)
	list := hunter.FetchAll(ctx)

	if len(list) == 0 {
		fmt.Println("\n  Nenhuma trend encontrada pelas APIs.")
		fmt.Println("  Use  ia-video-creator --topic 'Seu Tema'  para rodar manualmente.")
		return nil
	}

	line := strings.Repeat("=", 62)
	fmt.Println("\n" + line)
	fmt.Println(batchHeaderStyle.Render(fmt.Sprintf("  MODO AUTOMÁTICO — %d TRENDS ENCONTRADAS", len(list))))
	fmt.Println(line)
	for i, t := range list {
		source := t.Source
		if idx := strings.LastIndex(source, "/"); idx >= 0 {
			source = source[idx+1:]
		}
		fmt.Printf("  [%02d] %s\n", i+1, t.Title)
		fmt.Println(batchDimStyle.Render(fmt.Sprintf("       Fonte: %s  |  Score: %.0f", source, t.Score)))
	}
	fmt.Println(line)

	fmt.Printf("\n  Pasta de saída base: %s\n", cfg.Output.Dir)
	fmt.Printf("  Cada tema terá sua própria subpasta: %s/<tema>/\n\n", cfg.Output.Dir)

	fmt.Printf("  Iniciar processamento automático de %d vídeos? [s/n]: ", len(list))
	in := bufio.NewScanner(os.Stdin)
	if !in.Scan() || strings.ToLower(strings.TrimSpace(in.Text())) != "s" {
		fmt.Println("  Cancelado.")
		return nil
	}

	var results []batchResult
	batchStart := time.Now()

	for i := range list {
		trend := list[i]
		dir := filepath.Join(cfg.Output.Dir, slugify(trend.Title))

		fmt.Println("\n" + line)
		fmt.Println(batchHeaderStyle.Render(fmt.Sprintf("  PROCESSANDO [%d/%d]: %s", i+1, len(list), trend.Title)))
		fmt.Printf("  Pasta: %s\n", dir)
		fmt.Println(line)

		start := time.Now()
		err := runPipeline(ctx, cfg, pipelineOptions{
			Trend:     &trend,
			Auto:      true,
			ExportDir: dir,
		})
		elapsed := time.Since(start).Round(time.Second)

		if err != nil {
			log.Printf("[AUTO] Erro em %q: %v", trend.Title, err)
			results = append(results, batchResult{Title: trend.Title, Err: err, Elapsed: elapsed})
			continue
		}
		log.Printf("[AUTO] Concluído em %s", elapsed)
		results = append(results, batchResult{Title: trend.Title, OK: true, Dir: dir, Elapsed: elapsed})
	}

	printBatchSummary(results, time.Since(batchStart).Round(time.Second))
	return nil
}

func printBatchSummary(results []batchResult, total time.Duration) {
	line := strings.Repeat("=", 62)
	ok := 0

	fmt.Println("\n" + line)
	fmt.Println(batchHeaderStyle.Render("  MODO AUTO — RESUMO FINAL"))
	fmt.Println(line)
	for _, r := range results {
		if r.OK {
			ok++
			fmt.Println(batchOKStyle.Render(fmt.Sprintf("  [✓] %s", r.Title)))
			fmt.Printf("        Pasta : %s\n", r.Dir)
		} else {
			fmt.Println(batchErrStyle.Render(fmt.Sprintf("  [✗] %s", r.Title)))
			fmt.Printf("        Erro  : %v\n", r.Err)
		}
		fmt.Printf("        Tempo : %s\n", r.Elapsed)
	}
	fmt.Println(line)
	fmt.Printf("  Concluídos : %d/%d\n", ok, len(results))
	if erros := len(results) - ok; erros > 0 {
		fmt.Printf("  Com erro   : %d\n", erros)
	}
	fmt.Printf("  Tempo total: %s\n", total)
	fmt.Println(line)
}

var (
	slugDropRe  = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe = regexp.MustCompile(`\s+`)
)

var accentFold = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a", "ä", "a",
	"é", "e", "ê", "e", "ë", "e", "è", "e",
	"í", "i", "î", "i", "ï", "i", "ì", "i",
	"ó", "o", "ô", "o", "õ", "o", "ö", "o", "ò", "o",
	"ú", "u", "û", "u", "ü", "u", "ù", "u",
	"ç", "c", "ñ", "n",
)

// slugify folds a title into a safe directory name, 40 runes max
func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = accentFold.Replace(s)
	s = slugDropRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_-")
	if r := []rune(s); len(r) > 40 {
		s = string(r[:40])
	}
	return s
}
