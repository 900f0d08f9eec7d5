// Package narrator turns script text into narration audio using a local
// TTS engine with optional voice cloning, then polishes the result with
// ffmpeg filter chains.
package narrator

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ia-video-creator/config"
	"ia-video-creator/types"
)

type Narrator struct {
	cfg         *config.Config
	voiceSample string
}

func New(cfg *config.Config) *Narrator {
	return &Narrator{cfg: cfg, voiceSample: cfg.TTS.VoiceSample}
}

// resolveVoiceSample checks the configured sample on disk without mutating
// the config; the check runs again on the next batch item.
func (n *Narrator) resolveVoiceSample() string {
	sample := n.cfg.TTS.VoiceSample
	if sample == "" {
		return ""
	}
	if _, err := os.Stat(sample); err != nil {
		log.Printf("[narrator] ⚠️ Voice sample %s not found, using default voice", sample)
		return ""
	}
	log.Printf("[narrator] Voice cloning enabled: %s", filepath.Base(sample))
	return sample
}

// NarrateScenes synthesizes audio for every scene, filling in AudioFile and
// AudioDurationSec. A scene whose synthesis fails entirely gets one second
// of silence so the video timeline stays valid.
func (n *Narrator) NarrateScenes(ctx context.Context, scenes []types.Scene, workDir string) ([]types.Scene, error) {
	audioDir := filepath.Join(workDir, "audio")
	if err := os.MkdirAll(audioDir, 0755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	n.voiceSample = n.resolveVoiceSample()

	out := make([]types.Scene, len(scenes))
	copy(out, scenes)

	for i := range out {
		log.Printf("[narrator] Scene %d/%d: %s", out[i].Number, len(out), out[i].Title)

		audioFile := filepath.Join(audioDir, fmt.Sprintf("scene_%02d.wav", out[i].Number))
		if err := n.narrateScene(ctx, out[i].Narration, audioFile, audioDir); err != nil {
			log.Printf("[narrator] ⚠️ Scene %d failed (%v) — inserting silence", out[i].Number, err)
			if err := n.makeSilence(ctx, audioFile, 1.0); err != nil {
				return nil, fmt.Errorf("scene %d: %w", out[i].Number, err)
			}
		}

		dur, err := probeDuration(ctx, audioFile)
		if err != nil {
			return nil, fmt.Errorf("probe scene %d audio: %w", out[i].Number, err)
		}
		out[i].AudioFile = audioFile
		out[i].AudioDurationSec = dur
		log.Printf("[narrator] ✅ Scene %d: %.1fs", out[i].Number, dur)
	}
	return out, nil
}

// narrateScene synthesizes one scene: chunked TTS, silence trimming,
// punctuation pauses, concat, then the mastering chain.
func (n *Narrator) narrateScene(ctx context.Context, narration, outFile, workDir string) error {
	text := PrepareText(narration)
	if text == "" {
		return n.makeSilence(ctx, outFile, 1.0)
	}

	chunks := SplitSentences(text)
	if len(chunks) == 0 {
		return n.makeSilence(ctx, outFile, 1.0)
	}

	base := strings.TrimSuffix(filepath.Base(outFile), ".wav")
	var parts []string

	for i, chunk := range chunks {
		raw := filepath.Join(workDir, fmt.Sprintf("%s_chunk%02d_raw.wav", base, i))
		trimmed := filepath.Join(workDir, fmt.Sprintf("%s_chunk%02d.wav", base, i))

		if err := n.synthesize(ctx, chunk, raw); err != nil {
			log.Printf("[narrator] ⚠️ Chunk %d failed: %v", i+1, err)
			continue
		}
		if err := trimSilence(ctx, raw, trimmed); err != nil {
			trimmed = raw
		}
		parts = append(parts, trimmed)

		// no pause after the final chunk of a scene
		if i < len(chunks)-1 {
			ms := pauseAfter(chunk, n.cfg.TTS.PauseMs)
			pause := filepath.Join(workDir, fmt.Sprintf("%s_pause%02d.wav", base, i))
			if err := n.makeSilence(ctx, pause, float64(ms)/1000.0); err == nil {
				parts = append(parts, pause)
			}
		}
	}

	if len(parts) == 0 {
		return fmt.Errorf("all %d chunks failed", len(chunks))
	}

	joined := filepath.Join(workDir, base+"_joined.wav")
	if err := concatAudio(ctx, parts, joined, workDir); err != nil {
		return fmt.Errorf("concat chunks: %w", err)
	}
	if err := masterAudio(ctx, joined, outFile, n.cfg.TTS.Speed); err != nil {
		return fmt.Errorf("master audio: %w", err)
	}

	for _, p := range parts {
		os.Remove(p)
	}
	os.Remove(joined)
	return nil
}

// synthesize runs the TTS command once per chunk with retries
func (n *Narrator) synthesize(ctx context.Context, text, outFile string) error {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		cmd := n.buildTTSCommand(ctx, text, outFile)
		if out, err := cmd.CombinedOutput(); err != nil {
			lastErr = fmt.Errorf("%s attempt %d: %v: %s", n.cfg.TTS.Command, attempt, err, tail(string(out)))
			time.Sleep(time.Duration(attempt) * time.Second)
			continue
		}
		if fi, err := os.Stat(outFile); err != nil || fi.Size() < 100 {
			lastErr = fmt.Errorf("attempt %d produced empty output", attempt)
			continue
		}
		return nil
	}
	return lastErr
}

func (n *Narrator) buildTTSCommand(ctx context.Context, text, outFile string) *exec.Cmd {
	tts := n.cfg.TTS
	if strings.Contains(tts.Command, "edge-tts") {
		return exec.CommandContext(ctx, tts.Command,
			"--voice", tts.Speaker,
			"--text", text,
			"--write-media", outFile)
	}

	args := []string{
		"--text", text,
		"--model_name", tts.Model,
		"--out_path", outFile,
		"--language_idx", tts.Language,
	}
	if n.voiceSample != "" {
		args = append(args, "--speaker_wav", n.voiceSample)
	} else if tts.Speaker != "" {
		args = append(args, "--speaker_idx", tts.Speaker)
	}
	// wrapper scripts accept the xtts generation knobs the stock CLI hides
	if filepath.Base(tts.Command) != "tts" {
		gen := tts.Generation
		args = append(args,
			"--temperature", fmt.Sprintf("%.2f", gen.Temperature),
			"--top_k", fmt.Sprintf("%d", gen.TopK),
			"--top_p", fmt.Sprintf("%.2f", gen.TopP),
			"--repetition_penalty", fmt.Sprintf("%.2f", gen.RepetitionPenalty),
		)
	}
	return exec.CommandContext(ctx, tts.Command, args...)
}

// ListModels prints the models the TTS engine offers for Portuguese
func (n *Narrator) ListModels(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, n.cfg.TTS.Command, "--list_models")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s --list_models: %v", n.cfg.TTS.Command, err)
	}

	fmt.Println("Modelos TTS disponíveis (pt / multilingual):")
	for _, line := range strings.Split(string(out), "\n") {
		l := strings.TrimSpace(line)
		if l == "" {
			continue
		}
		if strings.Contains(l, "/pt/") || strings.Contains(l, "multilingual") {
			fmt.Println("  " + l)
		}
	}
	return nil
}

func (n *Narrator) makeSilence(ctx context.Context, outFile string, seconds float64) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=mono", n.cfg.TTS.SampleRate),
		"-t", fmt.Sprintf("%.3f", seconds),
		"-c:a", "pcm_s16le",
		outFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg silence: %v: %s", err, tail(string(out)))
	}
	return nil
}

// trimSilence removes leading and trailing silence from a synthesized chunk
func trimSilence(ctx context.Context, inFile, outFile string) error {
	filter := "silenceremove=start_periods=1:start_threshold=-45dB:start_silence=0.05," +
		"areverse,silenceremove=start_periods=1:start_threshold=-45dB:start_silence=0.05,areverse"
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inFile,
		"-af", filter,
		outFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg silenceremove: %v: %s", err, tail(string(out)))
	}
	return nil
}

// concatAudio joins wav parts with the concat demuxer
func concatAudio(ctx context.Context, parts []string, outFile, workDir string) error {
	listFile := filepath.Join(workDir, "concat_list.txt")
	var sb strings.Builder
	for _, p := range parts {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		sb.WriteString(fmt.Sprintf("file '%s'\n", abs))
	}
	if err := os.WriteFile(listFile, []byte(sb.String()), 0644); err != nil {
		return err
	}
	defer os.Remove(listFile)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat", "-safe", "0",
		"-i", listFile,
		"-c", "copy",
		outFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat: %v: %s", err, tail(string(out)))
	}
	return nil
}

// masterAudio applies the broadcast chain: high-pass, noise gate, gentle
// compression, loudness normalization to -16 LUFS and edge fades
func masterAudio(ctx context.Context, inFile, outFile string, speed float64) error {
	dur, err := probeDuration(ctx, inFile)
	if err != nil {
		return err
	}
	if speed > 0 && speed != 1.0 {
		dur = dur / speed
	}
	fadeOutStart := dur - 0.08
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}

	chain := []string{
		"highpass=f=80",
		"agate=threshold=-45dB:ratio=2:attack=5:release=100",
		"acompressor=threshold=-22dB:ratio=2.2:attack=8:release=80",
	}
	if speed > 0 && speed != 1.0 {
		chain = append(chain, fmt.Sprintf("atempo=%.3f", speed))
	}
	chain = append(chain,
		"loudnorm=I=-16:TP=-1.5:LRA=11",
		"afade=t=in:st=0:d=0.02",
		fmt.Sprintf("afade=t=out:st=%.3f:d=0.08", fadeOutStart),
	)
	filter := strings.Join(chain, ",")

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inFile,
		"-af", filter,
		"-ar", "44100",
		outFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mastering: %v: %s", err, tail(string(out)))
	}
	return nil
}

// probeDuration returns the duration of a media file in seconds
func probeDuration(ctx context.Context, file string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		file)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", filepath.Base(file), err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration of %s: %w", filepath.Base(file), err)
	}
	return dur, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 300 {
		return s[len(s)-300:]
	}
	return s
}
