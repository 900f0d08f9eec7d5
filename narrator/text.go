package narrator

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	latinRe      = regexp.MustCompile(`[^\x00-\x7F\x{00B0}\x{00B2}\x{00C0}-\x{024F}\x{1E00}-\x{1EFF}]`)
	bracketRe    = regexp.MustCompile(`\[[^\]]*\]`)
	parenRe      = regexp.MustCompile(`\([^)]*\)`)
	interjectRe  = regexp.MustCompile(`([.!?])\s+(?:Ponto|Pausa|Silêncio|Fim|Pronto)\.(\s+[A-ZÁÀÃÂÉÊÍÓÕÔÚÇ])`)
	markdownRe   = regexp.MustCompile("\\*+|#+|_{2,}|`+")
	ellipsisRe   = regexp.MustCompile(`\.{2,}`)
	doubleDashRe = regexp.MustCompile(`\s*--\s*`)
	multiSpaceRe = regexp.MustCompile(`\s+`)

	// numberRe matches whole numeric tokens including decimal and thousand
	// separators, so "13.8" and "300.000" are seen as one token and kept
	numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
)

// abbreviations expanded before synthesis, anchored at word boundaries so
// they never fire inside unrelated words
var abbreviations = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\bDra\.(\s)`), "Doutora$1"},
	{regexp.MustCompile(`\bDr\.(\s)`), "Doutor$1"},
	{regexp.MustCompile(`\bSra\.(\s)`), "Senhora$1"},
	{regexp.MustCompile(`\bSr\.(\s)`), "Senhor$1"},
	{regexp.MustCompile(`\bProf\.(\s)`), "Professor$1"},
	{regexp.MustCompile(`\bvs\.`), "versus"},
	{regexp.MustCompile(`\betc\.`), "etcétera"},
	{regexp.MustCompile(`(?i)(\d+)\s*km/h\b`), "$1 quilômetros por hora"},
	{regexp.MustCompile(`(?i)(\d+)\s*km²`), "$1 quilômetros quadrados"},
	{regexp.MustCompile(`(?i)(\d+)\s*km\b`), "$1 quilômetros"},
	{regexp.MustCompile(`(?i)(\d+)\s*kg\b`), "$1 quilogramas"},
	{regexp.MustCompile(`(\d+)\s*%`), "$1 por cento"},
	{regexp.MustCompile(`(?i)(\d+)\s*°C`), "$1 graus Celsius"},
	{regexp.MustCompile(`\bEUA\b`), "Estados Unidos"},
	{regexp.MustCompile(`\bIA\b`), "inteligência artificial"},
}

// PrepareText normalizes narration text before it reaches the TTS engine.
// Emojis and markdown are stripped, stage directions in brackets or
// parentheses and spelled-out pause interjections are removed, abbreviations
// and small numbers are expanded into words, ellipses and double hyphens
// are normalized.
func PrepareText(text string) string {
	text = latinRe.ReplaceAllString(text, "")
	text = bracketRe.ReplaceAllString(text, "")
	text = parenRe.ReplaceAllString(text, "")
	text = interjectRe.ReplaceAllString(text, "$1$2")
	text = markdownRe.ReplaceAllString(text, "")

	for _, ab := range abbreviations {
		text = ab.re.ReplaceAllString(text, ab.repl)
	}

	text = numberRe.ReplaceAllStringFunc(text, func(tok string) string {
		if strings.ContainsAny(tok, ".,") {
			return tok
		}
		return numberToWords(tok)
	})

	text = ellipsisRe.ReplaceAllString(text, ".")
	text = doubleDashRe.ReplaceAllString(text, ", ")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var (
	unitWords = []string{"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove",
		"dez", "onze", "doze", "treze", "quatorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove"}
	tenWords = []string{"", "", "vinte", "trinta", "quarenta", "cinquenta",
		"sessenta", "setenta", "oitenta", "noventa"}
	hundredWords = []string{"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos",
		"seiscentos", "setecentos", "oitocentos", "novecentos"}
)

// numberToWords spells out integers from 1 to 999 in Portuguese.
// Anything larger, zero, leading-zero codes, or numeric text the TTS reads
// fine is kept as-is.
func numberToWords(s string) string {
	if len(s) > 3 || (len(s) > 1 && s[0] == '0') {
		return s
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 {
		return s
	}

	if n == 100 {
		return "cem"
	}

	var parts []string
	if n >= 100 {
		parts = append(parts, hundredWords[n/100])
		n %= 100
	}
	if n >= 20 {
		parts = append(parts, tenWords[n/10])
		n %= 10
		if n > 0 {
			parts = append(parts, unitWords[n])
		}
	} else if n > 0 {
		parts = append(parts, unitWords[n])
	}
	return strings.Join(parts, " e ")
}

// maxChunkLen is the longest text the TTS engine handles without drifting
const maxChunkLen = 230

// SplitSentences breaks narration into synthesis chunks. Sentences are the
// primary unit; overlong sentences fall back to comma clauses. Chunks with
// no letters or digits are dropped rather than sent to the engine.
func SplitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	for _, r := range text {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(cur.String())
			if hasSpeech(s) {
				sentences = append(sentences, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); hasSpeech(s) {
		sentences = append(sentences, s)
	}

	var chunks []string
	for _, s := range sentences {
		if len(s) <= maxChunkLen {
			chunks = append(chunks, s)
			continue
		}
		chunks = append(chunks, splitByClauses(s)...)
	}
	return chunks
}

func hasSpeech(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// splitByClauses packs comma-separated clauses into chunks under the budget
func splitByClauses(sentence string) []string {
	clauses := strings.Split(sentence, ",")
	var chunks []string
	var cur strings.Builder

	for i, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if i < len(clauses)-1 {
			clause += ","
		}
		if cur.Len() > 0 && cur.Len()+len(clause)+1 > maxChunkLen {
			chunks = append(chunks, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(clause)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(cur.String()))
	}
	return chunks
}

// pauseAfter returns the silence in milliseconds to insert after a chunk,
// keyed by its final punctuation
func pauseAfter(chunk string, table map[string]int) int {
	if chunk == "" {
		return lookupPause(table, "default", 250)
	}
	last := chunk[len(chunk)-1:]
	switch last {
	case ".":
		return lookupPause(table, ".", 380)
	case "!":
		return lookupPause(table, "!", 320)
	case "?":
		return lookupPause(table, "?", 320)
	case ";":
		return lookupPause(table, ";", 220)
	case ":":
		return lookupPause(table, ":", 180)
	case ",":
		return lookupPause(table, ",", 90)
	}
	return lookupPause(table, "default", 250)
}

func lookupPause(table map[string]int, key string, fallback int) int {
	if table != nil {
		if v, ok := table[key]; ok {
			return v
		}
	}
	return fallback
}
