package main

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Buraco Negro", "buraco_negro"},
		{"Computação Quântica: o futuro!", "computacao_quantica_o_futuro"},
		{"  Fusão Nuclear  ", "fusao_nuclear"},
		{"IA já escreve código?", "ia_ja_escreve_codigo"},
		{"a-b c", "a-b_c"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := "este é um título extremamente longo que certamente passa de quarenta caracteres"
	got := slugify(long)
	if len([]rune(got)) > 40 {
		t.Errorf("slug has %d runes, want <= 40: %q", len([]rune(got)), got)
	}
}

func TestSlugifyEmptyAndSymbols(t *testing.T) {
	if got := slugify("!!! ???"); got != "" {
		t.Errorf("slugify of pure punctuation = %q, want empty", got)
	}
}
