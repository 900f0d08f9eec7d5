package trends

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ia-video-creator/types"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f"))
)

// Picker handles the interactive trend selection flow
type Picker struct {
	hunter *Hunter
	in     *bufio.Scanner
	out    io.Writer
}

// NewPicker wraps a Hunter with interactive input/output
func NewPicker(hunter *Hunter, in io.Reader, out io.Writer) *Picker {
	return &Picker{
		hunter: hunter,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Choose fetches trends, displays them and asks the user to pick one.
// Returns nil when the user gives up.
func (p *Picker) Choose(fetch func() []types.Trend) *types.Trend {
	for {
		list := fetch()
		if len(list) == 0 {
			fmt.Fprintln(p.out, dimStyle.Render("  No trends returned by any API."))
			return p.askManual(fetch)
		}

		p.printList(list)
		fmt.Fprintln(p.out, dimStyle.Render("  [0] search again   [m] enter topic manually"))

		for {
			fmt.Fprint(p.out, "\n  Trend number (or m for manual): ")
			if !p.in.Scan() {
				return nil
			}
			entry := strings.ToLower(strings.TrimSpace(p.in.Text()))
			switch {
			case entry == "0":
				// re-fetch
			case entry == "m":
				return p.askManual(fetch)
			default:
				n, err := strconv.Atoi(entry)
				if err != nil || n < 1 || n > len(list) {
					fmt.Fprintln(p.out, "  Enter a number, 0 to search again, or m for manual.")
					continue
				}
				chosen := list[n-1]
				fmt.Fprintf(p.out, "\n  Chosen: %s\n", titleStyle.Render(chosen.Title))
				return &chosen
			}
			break
		}
	}
}

func (p *Picker) printList(list []types.Trend) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, headerStyle.Render("   SCIENCE & TECH TRENDS"))
	for i, t := range list {
		bar := strings.Repeat("=", int(t.Score/10))
		fmt.Fprintf(p.out, "\n  [%02d] %s\n", i+1, titleStyle.Render(t.Title))
		fmt.Fprintf(p.out, "       Source: %s\n", shortSource(t.Source))
		fmt.Fprintf(p.out, "       Score : %s %.0f\n", barStyle.Render(fmt.Sprintf("[%-10s]", bar)), t.Score)
		if t.Description != "" {
			fmt.Fprintf(p.out, "       Info  : %s\n", dimStyle.Render(truncate(t.Description, 75)))
		}
	}
	fmt.Fprintln(p.out)
}

// askManual lets the user type a topic when the APIs come up empty
func (p *Picker) askManual(fetch func() []types.Trend) *types.Trend {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, headerStyle.Render("  MANUAL TOPIC ENTRY"))
	fmt.Fprintln(p.out, dimStyle.Render("  Examples: 'Buracos Negros', 'CRISPR', 'Fusão Nuclear'"))
	fmt.Fprintln(p.out, dimStyle.Render("  [0] try searching trends again"))

	for {
		fmt.Fprint(p.out, "\n  Topic (or 0 to retry search): ")
		if !p.in.Scan() {
			return nil
		}
		topic := strings.TrimSpace(p.in.Text())
		if topic == "0" {
			return p.Choose(fetch)
		}
		if topic != "" {
			fmt.Fprintf(p.out, "\n  Manual topic: %s\n", titleStyle.Render(topic))
			t := Manual(topic)
			return &t
		}
		fmt.Fprintln(p.out, "  Type a topic or 0 to retry.")
	}
}

// shortSource keeps only the last path segment of a source label
func shortSource(source string) string {
	if i := strings.LastIndex(source, "/"); i >= 0 {
		return source[i+1:]
	}
	return source
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
