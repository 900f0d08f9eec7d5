package script

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{`{"a": 1}`, `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := cleanFences(tt.in); got != tt.want {
			t.Errorf("cleanFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	in := `Claro! Aqui está o roteiro: {"titulo_video": "X"} Espero que goste.`
	if got := extractJSON(in); got != `{"titulo_video": "X"}` {
		t.Errorf("got %q", got)
	}
	if got := extractJSON("no braces here"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

const validScriptJSON = `{
  "titulo_video": "O Futuro da Fusão Nuclear",
  "thumb_texto": "ENERGIA INFINITA",
  "descricao_youtube": "Neste vídeo falamos sobre fusão nuclear.",
  "tags": ["fusão", "energia", "ciência"],
  "cenas": [
    {"numero": 1, "titulo": "Introdução", "naracao": "A fusão nuclear promete energia limpa.", "palavras_chave_midia": ["nuclear fusion", "plasma"]},
    {"numero": 2, "titulo": "Como Funciona", "naracao": "Dentro de um tokamak, o plasma atinge milhões de graus.", "palavras_chave_midia": ["tokamak"]}
  ]
}`

func TestParseScriptJSON(t *testing.T) {
	raw, err := parseScriptJSON("```json\n" + validScriptJSON + "\n```")
	if err != nil {
		t.Fatalf("parseScriptJSON: %v", err)
	}
	if raw.TituloVideo != "O Futuro da Fusão Nuclear" {
		t.Errorf("title = %q", raw.TituloVideo)
	}
	if len(raw.Cenas) != 2 {
		t.Fatalf("got %d scenes, want 2", len(raw.Cenas))
	}
	if raw.Cenas[1].Naracao == "" {
		t.Error("scene 2 narration missing")
	}
}

func TestParseScriptJSONRepairsTrailingComma(t *testing.T) {
	broken := `{
  "titulo_video": "Teste",
  "cenas": [
    {"numero": 1, "titulo": "A", "naracao": "Texto da cena.", "palavras_chave_midia": ["x"],},
  ],
}`
	raw, err := parseScriptJSON(broken)
	if err != nil {
		t.Fatalf("repair should have saved this JSON: %v", err)
	}
	if len(raw.Cenas) != 1 || raw.Cenas[0].Naracao != "Texto da cena." {
		t.Errorf("got %+v", raw.Cenas)
	}
}

func TestParseScriptJSONNoScenes(t *testing.T) {
	if _, err := parseScriptJSON(`{"titulo_video": "X", "cenas": []}`); err == nil {
		t.Fatal("expected error for script without scenes")
	}
	if _, err := parseScriptJSON("nothing useful"); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestFallbackScriptExtractsNarrations(t *testing.T) {
	// truncated model output, valid prefix but cut mid-JSON
	broken := `{"titulo_video": "Vida em Marte", "cenas": [
	    {"numero": 1, "naracao": "Marte sempre fascinou a humanidade."},
	    {"numero": 2, "naracao": "Sondas buscam sinais de \"vida\" no solo."`

	raw := fallbackScript("Vida em Marte", broken)

	if raw.TituloVideo != "Vida em Marte" {
		t.Errorf("title = %q", raw.TituloVideo)
	}
	if len(raw.Cenas) != 2 {
		t.Fatalf("got %d scenes, want 2 extracted", len(raw.Cenas))
	}
	if raw.Cenas[0].Naracao != "Marte sempre fascinou a humanidade." {
		t.Errorf("scene 1 = %q", raw.Cenas[0].Naracao)
	}
	if raw.Cenas[1].Naracao != `Sondas buscam sinais de "vida" no solo.` {
		t.Errorf("escapes not decoded: %q", raw.Cenas[1].Naracao)
	}
	if raw.Cenas[0].Titulo != "Introdução" {
		t.Errorf("scene 1 title = %q", raw.Cenas[0].Titulo)
	}
}

func TestFallbackScriptGeneric(t *testing.T) {
	raw := fallbackScript("Grafeno", "the model rambled with no JSON at all")

	if len(raw.Cenas) != 2 {
		t.Fatalf("generic fallback should have 2 scenes, got %d", len(raw.Cenas))
	}
	for _, c := range raw.Cenas {
		if !strings.Contains(c.Naracao, "Grafeno") {
			t.Errorf("narration should mention the topic: %q", c.Naracao)
		}
		if strings.Contains(c.Naracao, "rambled") {
			t.Error("raw model text must never leak into narration")
		}
	}
}

func TestBuildScriptDefaults(t *testing.T) {
	raw := &rawScript{
		Cenas: []rawScene{
			{Naracao: "Primeira cena."},
			{Naracao: "Segunda cena."},
		},
	}
	s := buildScript("Buracos Negros", raw)

	if s.VideoTitle != "Tudo sobre Buracos Negros" {
		t.Errorf("VideoTitle = %q", s.VideoTitle)
	}
	if s.ThumbText != "BURACOS NEGROS" {
		t.Errorf("ThumbText = %q", s.ThumbText)
	}
	if len(s.Tags) == 0 {
		t.Error("tags should get defaults")
	}
	if s.Scenes[0].Number != 1 || s.Scenes[1].Number != 2 {
		t.Errorf("scene numbers = %d, %d", s.Scenes[0].Number, s.Scenes[1].Number)
	}

	long := buildScript(strings.Repeat("ç", 40), &rawScript{Cenas: raw.Cenas})
	if !utf8.ValidString(long.ThumbText) {
		t.Errorf("thumb truncation split a rune: %q", long.ThumbText)
	}
	if n := utf8.RuneCountInString(long.ThumbText); n != 30 {
		t.Errorf("thumb rune count = %d, want 30", n)
	}
	if s.Scenes[0].Title != "Cena 1" {
		t.Errorf("scene title = %q", s.Scenes[0].Title)
	}
	if s.FullNarration != "Primeira cena.\n\nSegunda cena." {
		t.Errorf("FullNarration = %q", s.FullNarration)
	}
}

func TestUnescapeJSONString(t *testing.T) {
	if got := unescapeJSONString(`linha um\nlinha dois`); got != "linha um\nlinha dois" {
		t.Errorf("got %q", got)
	}
	if got := unescapeJSONString("plain"); got != "plain" {
		t.Errorf("got %q", got)
	}
}
