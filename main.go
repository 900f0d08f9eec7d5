package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ia-video-creator/config"
	"ia-video-creator/narrator"
)

const banner = `
╔══════════════════════════════════════════════════════════╗
║           IA VIDEO CREATOR — Ciência & Tecnologia        ║
║   Trend → Roteiro → Voz → Mídia → Vídeo → Export        ║
╚══════════════════════════════════════════════════════════╝
`

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))

var (
	flagConfig     string
	flagTopic      string
	flagDuration   int
	flagAuto       bool
	flagListModels bool
)

var rootCmd = &cobra.Command{
	Use:   "ia-video-creator",
	Short: "Gera vídeos de ciência e tecnologia a partir de trends",
	Long: `ia-video-creator monta vídeos completos para o YouTube:
busca trends, escreve o roteiro com um LLM local, narra com TTS,
baixa mídia do Pexels e exporta vídeo, thumbnail e metadados.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(bannerStyle.Render(banner))

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		// CLI flags win over the YAML file
		if flagDuration > 0 {
			cfg.Script.TargetDurationMin = flagDuration
		}

		ctx := context.Background()

		if flagListModels {
			return narrator.New(cfg).ListModels(ctx)
		}
		if flagAuto {
			return runBatch(ctx, cfg)
		}
		return runPipeline(ctx, cfg, pipelineOptions{Topic: flagTopic})
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "config.yaml", "caminho do arquivo de configuração")
	rootCmd.Flags().StringVar(&flagTopic, "topic", "", "pula a busca de trends e usa este tema diretamente")
	rootCmd.Flags().IntVar(&flagDuration, "duration", 0, "duração alvo em minutos (sobrepõe o config)")
	rootCmd.Flags().BoolVarP(&flagAuto, "auto", "a", false, "modo automático: processa todas as trends sem interação")
	rootCmd.Flags().BoolVar(&flagListModels, "list-tts-models", false, "lista modelos TTS em português e sai")
}

func main() {
	// .env is optional, real deployments export the vars directly
	_ = godotenv.Load()

	log.SetFlags(log.Ltime)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
