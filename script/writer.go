// Package script generates the roteiro for one video using a local
// LLM server (Ollama) through its OpenAI-compatible endpoint.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"ia-video-creator/config"
	"ia-video-creator/types"

	"github.com/kaptinlin/jsonrepair"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Writer generates scripts via the local LLM server
type Writer struct {
	cfg    *config.Config
	client openai.Client
}

// New creates a new script Writer
func New(cfg *config.Config) *Writer {
	client := openai.NewClient(
		option.WithBaseURL(cfg.LLM.BaseURL),
		option.WithAPIKey("ollama"), // local server ignores the key but the client requires one
	)
	return &Writer{cfg: cfg, client: client}
}

const systemPrompt = `Você é um roteirista especialista em vídeos educativos de ciência e tecnologia para YouTube.

Você DEVE responder APENAS com JSON válido — sem preâmbulo, sem markdown, sem explicação.

O JSON deve ter exatamente estes campos:
- "titulo_video": título chamativo e otimizado para SEO (máx 60 chars)
- "thumb_texto": texto ultra-curto para thumbnail (máx 5 palavras em CAPS)
- "descricao_youtube": descrição completa com palavras-chave (2-3 parágrafos)
- "tags": array de 8 strings
- "cenas": array de 5 cenas, cada uma com "numero", "titulo", "naracao" e "palavras_chave_midia"

REGRAS IMPORTANTES:
- A naracao deve ser natural, fluida e adequada para ser lida em voz alta por um TTS
- NUNCA coloque direções de cena, indicações de voz ou anotações técnicas na naracao
- PROIBIDO na naracao: [Pausa], [PONTO], (voz grave), (música), [efeito] ou similares
- Sem símbolos estranhos, emojis ou markdown na naracao
- As palavras_chave_midia devem ser em INGLÊS para melhor resultado na busca de mídia`

// rawScript mirrors the JSON structure the model is asked to produce
type rawScript struct {
	TituloVideo      string     `json:"titulo_video"`
	ThumbTexto       string     `json:"thumb_texto"`
	DescricaoYouTube string     `json:"descricao_youtube"`
	Tags             []string   `json:"tags"`
	Cenas            []rawScene `json:"cenas"`
}

type rawScene struct {
	Numero             int      `json:"numero"`
	Titulo             string   `json:"titulo"`
	Naracao            string   `json:"naracao"`
	PalavrasChaveMidia []string `json:"palavras_chave_midia"`
}

// Generate produces a full script for a topic
func (w *Writer) Generate(ctx context.Context, topic, background string) (*types.Script, error) {
	log.Printf("[script] Generating script for: %s (model %s)", topic, w.cfg.LLM.Model)

	userPrompt := w.buildUserPrompt(topic, background)

	resp, err := w.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: w.cfg.LLM.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(w.cfg.LLM.Temperature),
		MaxTokens:   openai.Int(int64(w.cfg.LLM.MaxTokens)),
	})
	if err != nil {
		return nil, fmt.Errorf("LLM request to %s failed (is the server running?): %w", w.cfg.LLM.BaseURL, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw, err := parseScriptJSON(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("[script] JSON parse warning: %v — using fallback extraction", err)
		raw = fallbackScript(topic, resp.Choices[0].Message.Content)
	}

	script := buildScript(topic, raw)
	log.Printf("[script] ✅ Script ready: %q | %d scenes | %d words",
		script.VideoTitle, len(script.Scenes), len(strings.Fields(script.FullNarration)))
	return script, nil
}

func (w *Writer) buildUserPrompt(topic, background string) string {
	totalWords := w.cfg.Script.TargetDurationMin * w.cfg.Script.WordsPerMinute

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("TEMA DO VÍDEO: %s\n", topic))
	if background != "" {
		sb.WriteString(fmt.Sprintf("CONTEXTO ADICIONAL: %s\n", background))
	}
	sb.WriteString(fmt.Sprintf("CANAL: %s\n", w.cfg.Script.ChannelName))
	sb.WriteString(fmt.Sprintf("ESTILO: %s\n", w.cfg.Script.Style))
	sb.WriteString(fmt.Sprintf("DURAÇÃO ALVO: %d minutos (~%d palavras no total)\n",
		w.cfg.Script.TargetDurationMin, totalWords))
	sb.WriteString(fmt.Sprintf("IDIOMA: %s\n\n", w.cfg.Script.Language))
	sb.WriteString("As 5 cenas devem seguir: Introdução, Contexto e Importância, Como Funciona, ")
	sb.WriteString("Impacto e Futuro, Conclusão (com call-to-action para curtir e se inscrever).\n")
	sb.WriteString("Responda APENAS com o JSON.")
	return sb.String()
}

// parseScriptJSON extracts and decodes the script JSON from the raw model output.
// Markdown fences are stripped, and malformed JSON (trailing commas, unbalanced
// braces) goes through jsonrepair before giving up.
func parseScriptJSON(content string) (*rawScript, error) {
	cleaned := extractJSON(cleanFences(content))
	if cleaned == "" {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var raw rawScript
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		fixed, rerr := jsonrepair.JSONRepair(cleaned)
		if rerr != nil {
			return nil, fmt.Errorf("unmarshal: %w (repair also failed: %v)", err, rerr)
		}
		if err := json.Unmarshal([]byte(fixed), &raw); err != nil {
			return nil, fmt.Errorf("unmarshal repaired JSON: %w", err)
		}
	}

	if len(raw.Cenas) == 0 {
		return nil, fmt.Errorf("script JSON has no scenes")
	}
	return &raw, nil
}

func cleanFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSON finds the outermost {...} block in the response
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

var (
	narrationRe    = regexp.MustCompile(`"naracao"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	titleRe        = regexp.MustCompile(`"titulo_video"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	thumbRe        = regexp.MustCompile(`"thumb_texto"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	fallbackTitles = []string{"Introdução", "Desenvolvimento", "Contexto", "Impacto", "Conclusão"}
)

// fallbackScript salvages narration fields from broken JSON, or builds a
// minimal generic two-scene script as a last resort. The raw model text is
// never used directly as narration.
func fallbackScript(topic, rawText string) *rawScript {
	title := fmt.Sprintf("Tudo sobre %s | Ciência & Tecnologia", topic)
	if m := titleRe.FindStringSubmatch(rawText); m != nil {
		title = unescapeJSONString(m[1])
	}
	thumb := strings.ToUpper(topic)
	if r := []rune(thumb); len(r) > 25 {
		thumb = string(r[:25])
	}
	if m := thumbRe.FindStringSubmatch(rawText); m != nil {
		thumb = unescapeJSONString(m[1])
	}

	raw := &rawScript{
		TituloVideo: title,
		ThumbTexto:  thumb,
		DescricaoYouTube: fmt.Sprintf(
			"Neste vídeo exploramos tudo sobre %s. Deixe seu like e se inscreva no canal!", topic),
		Tags: []string{"ciência", "tecnologia", topic, "educação", "youtube"},
	}

	narrations := narrationRe.FindAllStringSubmatch(rawText, -1)
	if len(narrations) > 0 {
		log.Printf("[script] Fallback extracted %d narration(s) from malformed JSON", len(narrations))
		for i, m := range narrations {
			sceneTitle := fmt.Sprintf("Cena %d", i+1)
			if i < len(fallbackTitles) {
				sceneTitle = fallbackTitles[i]
			}
			raw.Cenas = append(raw.Cenas, rawScene{
				Numero:             i + 1,
				Titulo:             sceneTitle,
				Naracao:            unescapeJSONString(m[1]),
				PalavrasChaveMidia: []string{topic, "technology", "science"},
			})
		}
		return raw
	}

	log.Printf("[script] Fallback has no extractable narrations — using generic script")
	raw.Cenas = []rawScene{
		{
			Numero: 1,
			Titulo: "Introdução",
			Naracao: fmt.Sprintf(
				"Hoje vamos falar sobre %s. Este é um tema fascinante que impacta diretamente o nosso dia a dia. "+
					"Fique com a gente até o final para descobrir tudo sobre este assunto.", topic),
			PalavrasChaveMidia: []string{topic, "technology", "science"},
		},
		{
			Numero: 2,
			Titulo: "Desenvolvimento",
			Naracao: fmt.Sprintf(
				"Vamos explorar os principais aspectos de %s. Com o avanço da tecnologia, este campo tem "+
					"evoluído rapidamente. Gostou do conteúdo? Deixe seu like e se inscreva no canal!", topic),
			PalavrasChaveMidia: []string{"science discovery", "research"},
		},
	}
	return raw
}

func unescapeJSONString(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}

// buildScript converts the raw decoded JSON into the pipeline Script type
func buildScript(topic string, raw *rawScript) *types.Script {
	script := &types.Script{
		VideoTitle:  raw.TituloVideo,
		Description: raw.DescricaoYouTube,
		Tags:        raw.Tags,
		ThumbText:   raw.ThumbTexto,
	}
	if script.VideoTitle == "" {
		script.VideoTitle = "Tudo sobre " + topic
	}
	if script.ThumbText == "" {
		script.ThumbText = strings.ToUpper(topic)
		if r := []rune(script.ThumbText); len(r) > 30 {
			script.ThumbText = string(r[:30])
		}
	}
	if len(script.Tags) == 0 {
		script.Tags = []string{"ciência", "tecnologia", topic}
	}

	var narrations []string
	for i, c := range raw.Cenas {
		scene := types.Scene{
			Number:        c.Numero,
			Title:         c.Titulo,
			Narration:     c.Naracao,
			MediaKeywords: c.PalavrasChaveMidia,
		}
		if scene.Number == 0 {
			scene.Number = i + 1
		}
		if scene.Title == "" {
			scene.Title = fmt.Sprintf("Cena %d", scene.Number)
		}
		if len(scene.MediaKeywords) == 0 {
			scene.MediaKeywords = []string{topic}
		}
		script.Scenes = append(script.Scenes, scene)
		narrations = append(narrations, scene.Narration)
	}
	script.FullNarration = strings.Join(narrations, "\n\n")
	return script
}
