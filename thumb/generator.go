// Package thumb renders the YouTube thumbnail with ffmpeg drawtext.
package thumb

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ia-video-creator/config"
)

const (
	thumbWidth  = 1280
	thumbHeight = 720
)

// fallback fonts probed when none is configured
var systemFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
}

type Generator struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// Generate renders the thumbnail over the first usable background image.
// With no image available a dark gradient is synthesized instead.
func (g *Generator) Generate(ctx context.Context, thumbText string, images []string, outFile string) (string, error) {
	log.Printf("[thumb] Generating thumbnail: %s", thumbText)

	if err := os.MkdirAll(filepath.Dir(outFile), 0755); err != nil {
		return "", fmt.Errorf("create thumb dir: %w", err)
	}

	background := ""
	for _, img := range images {
		if fi, err := os.Stat(img); err == nil && fi.Size() > 1000 {
			background = img
			break
		}
	}

	font := g.findFont()
	lines := WrapTitle(strings.ToUpper(thumbText), 14, 2)
	accent := g.cfg.Thumbnail.AccentColor
	if accent == "" {
		accent = "0xCC0000"
	}
	titleColor := g.cfg.Thumbnail.TitleColor
	if titleColor == "" {
		titleColor = "white"
	}
	subtitle := g.cfg.Thumbnail.Subtitle
	badge := g.cfg.Thumbnail.Badge

	var filters []string

	if background != "" {
		filters = append(filters,
			fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
				thumbWidth, thumbHeight, thumbWidth, thumbHeight),
			"eq=brightness=-0.25",
			"gblur=sigma=1.5",
		)
	}

	// left accent bar and text backdrop
	filters = append(filters,
		fmt.Sprintf("drawbox=x=0:y=0:w=12:h=%d:color=%s:t=fill", thumbHeight, accent),
		fmt.Sprintf("drawbox=x=40:y=%d:w=%d:h=%d:color=black@0.6:t=fill",
			thumbHeight/2-30, thumbWidth-80, thumbHeight/2+10),
	)

	y := thumbHeight/2 - 10
	for _, line := range lines {
		filters = append(filters,
			drawText(font, line, 62, y+4, 120, "black@0.8"),
			drawText(font, line, 60, y, 120, titleColor),
		)
		y += 130
	}
	if subtitle != "" {
		filters = append(filters, drawText(font, subtitle, 62, y+5, 36, "0xC8C8C8"))
	}
	if badge != "" {
		filters = append(filters,
			fmt.Sprintf("drawbox=x=50:y=25:w=150:h=55:color=%s:t=fill", accent),
			drawText(font, badge, 65, 32, 36, "white"),
		)
	}

	var args []string
	if background != "" {
		args = []string{"-y", "-i", background}
	} else {
		args = []string{"-y", "-f", "lavfi",
			"-i", fmt.Sprintf("gradients=s=%dx%d:c0=0x0a0a1e:c1=0x1e1e50:n=2", thumbWidth, thumbHeight)}
	}

	logo := g.cfg.Thumbnail.Logo
	if logo != "" {
		if _, err := os.Stat(logo); err != nil {
			log.Printf("[thumb] ⚠️ Logo %s not found, skipping", logo)
			logo = ""
		}
	}

	if logo != "" {
		args = append(args, "-i", logo,
			"-filter_complex", fmt.Sprintf(
				"[0:v]%s[bg];[1:v]scale=-1:80[logo];[bg][logo]overlay=W-w-30:20",
				strings.Join(filters, ",")))
	} else {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	args = append(args,
		"-frames:v", "1",
		"-q:v", "2",
		outFile)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg thumbnail: %v: %s", err, tail(string(out)))
	}

	log.Printf("[thumb] ✅ Saved: %s", outFile)
	return outFile, nil
}

func (g *Generator) findFont() string {
	if g.cfg.Thumbnail.Font != "" {
		if _, err := os.Stat(g.cfg.Thumbnail.Font); err == nil {
			return g.cfg.Thumbnail.Font
		}
		log.Printf("[thumb] ⚠️ Font %s not found, probing system fonts", g.cfg.Thumbnail.Font)
	}
	for _, f := range systemFonts {
		if _, err := os.Stat(f); err == nil {
			return f
		}
	}
	return ""
}

func drawText(font, text string, x, y, size int, color string) string {
	parts := []string{
		fmt.Sprintf("text='%s'", EscapeDrawText(text)),
		fmt.Sprintf("x=%d", x),
		fmt.Sprintf("y=%d", y),
		fmt.Sprintf("fontsize=%d", size),
		fmt.Sprintf("fontcolor=%s", color),
	}
	if font != "" {
		parts = append(parts, fmt.Sprintf("fontfile=%s", font))
	}
	return "drawtext=" + strings.Join(parts, ":")
}

// EscapeDrawText escapes characters drawtext treats as syntax
func EscapeDrawText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return s
}

// WrapTitle wraps text at word boundaries into at most maxLines lines of
// roughly width characters
func WrapTitle(text string, width, maxLines int) []string {
	words := strings.Fields(text)
	var lines []string
	var cur strings.Builder

	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+len(w)+1 > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 300 {
		return s[len(s)-300:]
	}
	return s
}
