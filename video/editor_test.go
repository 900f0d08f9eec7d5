package video

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ia-video-creator/config"
)

func TestNewResolution(t *testing.T) {
	cfg := config.Default()
	e := New(cfg)
	if e.width != 1920 || e.height != 1080 {
		t.Errorf("got %dx%d", e.width, e.height)
	}

	cfg.Video.Resolution = []int{1280, 720}
	e = New(cfg)
	if e.width != 1280 || e.height != 720 {
		t.Errorf("got %dx%d", e.width, e.height)
	}
}

func TestExisting(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "a.mp4")
	if err := os.WriteFile(real, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got := existing([]string{real, filepath.Join(dir, "missing.mp4")})
	if len(got) != 1 || got[0] != real {
		t.Errorf("got %v", got)
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(5); got != "5.000" {
		t.Errorf("got %q", got)
	}
	if got := formatSeconds(12.3456); got != "12.346" {
		t.Errorf("got %q", got)
	}
}

func TestMuxArgsSilentSceneInputOrder(t *testing.T) {
	args := muxArgs("visual.mp4", "", 5, "fade=t=in:st=0:d=0.5", "out.mp4")

	joined := strings.Join(args, " ")
	lastInput := strings.LastIndex(joined, "-i ")
	firstOutputOpt := strings.Index(joined, "-t ")
	if firstOutputOpt < lastInput {
		t.Errorf("output options precede the silence input: %q", joined)
	}
	if !strings.Contains(joined, "anullsrc") {
		t.Errorf("silent scene should get a null audio source: %q", joined)
	}
}

func TestMuxArgsWithAudio(t *testing.T) {
	args := muxArgs("visual.mp4", "voz.wav", 5, "fade=t=in:st=0:d=0.5", "out.mp4")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-i voz.wav") {
		t.Errorf("narration input missing: %q", joined)
	}
	if strings.Contains(joined, "anullsrc") {
		t.Errorf("null source should not appear with narration present: %q", joined)
	}
}

func TestFinalizeArgs(t *testing.T) {
	args := strings.Join(finalizeArgs("joined.mp4", "final.mp4"), " ")
	if !strings.Contains(args, "-movflags +faststart") {
		t.Errorf("final export must request faststart: %q", args)
	}
	if !strings.Contains(args, "-c copy") {
		t.Errorf("final remux must not re-encode: %q", args)
	}
}

func TestTail(t *testing.T) {
	long := strings.Repeat("x", 400) + "END"
	got := tail(long)
	if len(got) != 300 {
		t.Errorf("len = %d, want 300", len(got))
	}
	if !strings.HasSuffix(got, "END") {
		t.Error("tail should keep the end of the output")
	}
	if got := tail("  short  "); got != "short" {
		t.Errorf("got %q", got)
	}
}
