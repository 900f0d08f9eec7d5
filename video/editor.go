// Package video composes the final mp4 from scene audio and stock media
// by driving ffmpeg, one render per scene plus a concat and music mix pass.
package video

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"ia-video-creator/config"
	"ia-video-creator/types"
)

type Editor struct {
	cfg    *config.Config
	width  int
	height int
}

func New(cfg *config.Config) *Editor {
	w, h := 1920, 1080
	if len(cfg.Video.Resolution) == 2 {
		w, h = cfg.Video.Resolution[0], cfg.Video.Resolution[1]
	}
	return &Editor{cfg: cfg, width: w, height: h}
}

// Compose renders every scene clip, concatenates them and mixes in the
// background music. Returns the path of the final mp4.
func (e *Editor) Compose(ctx context.Context, scenes []types.Scene, media map[int]*types.SceneMedia, workDir, outFile string) (string, error) {
	sceneDir := filepath.Join(workDir, "scenes")
	if err := os.MkdirAll(sceneDir, 0755); err != nil {
		return "", fmt.Errorf("create scene dir: %w", err)
	}

	var clips []string
	for i := range scenes {
		scene := scenes[i]
		dur := scene.AudioDurationSec
		if dur <= 0 {
			dur = e.cfg.Video.SecPerImage * 3
		}
		log.Printf("[video] Scene %d (%s): %.1fs", scene.Number, scene.Title, dur)

		clip := filepath.Join(sceneDir, fmt.Sprintf("scene_%02d.mp4", scene.Number))
		if err := e.renderScene(ctx, scene, media[scene.Number], dur, sceneDir, clip); err != nil {
			return "", fmt.Errorf("render scene %d: %w", scene.Number, err)
		}
		scenes[i].VisualFile = clip
		clips = append(clips, clip)
	}

	log.Printf("[video] Concatenating %d scenes...", len(clips))
	joined := filepath.Join(workDir, "joined.mp4")
	if err := concatClips(ctx, clips, joined, workDir); err != nil {
		return "", fmt.Errorf("concat scenes: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	music := e.cfg.Video.MusicFile
	if music != "" {
		if _, err := os.Stat(music); err != nil {
			log.Printf("[video] ⚠️ Music file %s not found — skipping", music)
			music = ""
		}
	}
	if music != "" {
		log.Printf("[video] Mixing background music...")
		if err := e.mixMusic(ctx, joined, music, outFile); err != nil {
			log.Printf("[video] ⚠️ Music mix failed (%v) — keeping narration only", err)
			if err := finalizeMP4(ctx, joined, outFile); err != nil {
				return "", err
			}
		}
	} else {
		if err := finalizeMP4(ctx, joined, outFile); err != nil {
			return "", err
		}
	}

	log.Printf("[video] ✅ Exported: %s", outFile)
	return outFile, nil
}

// renderScene builds one scene clip: a video base when available, otherwise
// a slideshow of images with a slow zoom, otherwise a dark filler frame.
// The scene narration is muxed in as the audio track.
func (e *Editor) renderScene(ctx context.Context, scene types.Scene, m *types.SceneMedia, dur float64, workDir, outFile string) error {
	var videos, images []string
	if m != nil {
		videos = existing(m.Videos)
		images = existing(m.Images)
	}

	visual := filepath.Join(workDir, fmt.Sprintf("visual_%02d.mp4", scene.Number))
	var err error
	switch {
	case len(videos) > 0:
		err = e.renderVideoBase(ctx, videos[0], dur, visual)
	case len(images) > 0:
		err = e.renderSlideshow(ctx, images, dur, workDir, scene.Number, visual)
	default:
		err = e.renderFiller(ctx, dur, visual)
	}
	if err != nil {
		return err
	}

	return e.muxAudio(ctx, visual, scene.AudioFile, dur, outFile)
}

// renderVideoBase loops a stock clip to cover the scene and scales it to
// fill the frame
func (e *Editor) renderVideoBase(ctx context.Context, src string, dur float64, outFile string) error {
	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1,fps=%d",
		e.width, e.height, e.width, e.height, e.cfg.Video.FPS)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-stream_loop", "-1",
		"-i", src,
		"-t", formatSeconds(dur),
		"-vf", filter,
		"-an",
		"-c:v", "libx264", "-preset", "medium", "-pix_fmt", "yuv420p",
		outFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg video base: %v: %s", err, tail(string(out)))
	}
	return nil
}

// renderSlideshow splits the scene across up to four images, each with a
// slow push-in
func (e *Editor) renderSlideshow(ctx context.Context, images []string, dur float64, workDir string, sceneNum int, outFile string) error {
	n := len(images)
	if n > 4 {
		n = 4
	}
	perImage := dur / float64(n)

	var parts []string
	for i := 0; i < n; i++ {
		part := filepath.Join(workDir, fmt.Sprintf("img_%02d_%d.mp4", sceneNum, i))
		if err := e.renderKenBurns(ctx, images[i], perImage, part); err != nil {
			log.Printf("[video] ⚠️ Image clip failed: %v", err)
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return e.renderFiller(ctx, dur, outFile)
	}
	if len(parts) == 1 {
		return os.Rename(parts[0], outFile)
	}
	return concatClips(ctx, parts, outFile, workDir)
}

// renderKenBurns turns a still image into a clip with a gentle zoom
func (e *Editor) renderKenBurns(ctx context.Context, img string, dur float64, outFile string) error {
	frames := int(dur * float64(e.cfg.Video.FPS))
	if frames < 1 {
		frames = 1
	}
	zoom := e.cfg.Video.KenBurnsZoom
	if zoom <= 1.0 {
		zoom = 1.05
	}

	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,"+
			"zoompan=z='1+%.4f*on/%d':d=%d:x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':s=%dx%d:fps=%d,setsar=1",
		e.width*2, e.height*2, e.width*2, e.height*2,
		zoom-1.0, frames, frames,
		e.width, e.height, e.cfg.Video.FPS)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-loop", "1",
		"-i", img,
		"-t", formatSeconds(dur),
		"-vf", filter,
		"-c:v", "libx264", "-preset", "medium", "-pix_fmt", "yuv420p",
		outFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg zoompan: %v: %s", err, tail(string(out)))
	}
	return nil
}

// renderFiller produces a dark frame when no media survived for a scene
func (e *Editor) renderFiller(ctx context.Context, dur float64, outFile string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=0x0a0a1e:s=%dx%d:r=%d", e.width, e.height, e.cfg.Video.FPS),
		"-t", formatSeconds(dur),
		"-c:v", "libx264", "-preset", "medium", "-pix_fmt", "yuv420p",
		outFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg filler: %v: %s", err, tail(string(out)))
	}
	return nil
}

// muxAudio attaches scene narration and applies fade in/out transitions
func (e *Editor) muxAudio(ctx context.Context, visual, audio string, dur float64, outFile string) error {
	fadeOutStart := dur - e.cfg.Video.TransitionSec
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}
	vf := fmt.Sprintf("fade=t=in:st=0:d=%.2f,fade=t=out:st=%.2f:d=%.2f",
		e.cfg.Video.TransitionSec, fadeOutStart, e.cfg.Video.TransitionSec)

	if audio != "" {
		if _, err := os.Stat(audio); err != nil {
			audio = ""
		}
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", muxArgs(visual, audio, dur, vf, outFile)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux: %v: %s", err, tail(string(out)))
	}
	return nil
}

// muxArgs lays out the mux invocation. Both inputs must precede the output
// options or ffmpeg applies them to the second input and aborts.
func muxArgs(visual, audio string, dur float64, vf, outFile string) []string {
	args := []string{"-y", "-i", visual}
	if audio != "" {
		args = append(args, "-i", audio)
	} else {
		args = append(args, "-f", "lavfi", "-i", "anullsrc=r=44100:cl=stereo")
	}
	return append(args,
		"-t", formatSeconds(dur),
		"-vf", vf,
		"-c:v", "libx264", "-preset", "medium", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "192k", "-shortest",
		outFile)
}

// mixMusic loops the music track under the narration at the configured
// volume, fading it in over 2s and out over 3s
func (e *Editor) mixMusic(ctx context.Context, videoFile, musicFile, outFile string) error {
	dur, err := ProbeDurationSec(ctx, videoFile)
	if err != nil {
		return err
	}
	fadeOutStart := dur - 3.0
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}

	filter := fmt.Sprintf(
		"[1:a]volume=%.3f,afade=t=in:st=0:d=2,afade=t=out:st=%.2f:d=3[m];"+
			"[0:a][m]amix=inputs=2:duration=first:dropout_transition=2[a]",
		e.cfg.Video.MusicVolume, fadeOutStart)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoFile,
		"-stream_loop", "-1", "-i", musicFile,
		"-filter_complex", filter,
		"-map", "0:v", "-map", "[a]",
		"-c:v", "copy",
		"-c:a", "aac", "-b:a", "192k",
		"-t", formatSeconds(dur),
		"-movflags", "+faststart",
		outFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg amix: %v: %s", err, tail(string(out)))
	}
	return nil
}

// finalizeArgs remuxes without re-encoding, moving the moov atom up front
// so the exported mp4 starts streaming immediately
func finalizeArgs(in, out string) []string {
	return []string{"-y", "-i", in, "-c", "copy", "-movflags", "+faststart", out}
}

func finalizeMP4(ctx context.Context, in, out string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", finalizeArgs(in, out)...)
	if o, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg faststart: %v: %s", err, tail(string(o)))
	}
	return nil
}

func concatClips(ctx context.Context, clips []string, outFile, workDir string) error {
	listFile := filepath.Join(workDir, fmt.Sprintf("concat_%s.txt", filepath.Base(outFile)))
	var sb strings.Builder
	for _, c := range clips {
		abs, err := filepath.Abs(c)
		if err != nil {
			abs = c
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

// ProbeDurationSec returns the duration of a media file in seconds
func ProbeDurationSec(ctx context.Context, file string) (float64, error) {
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

func existing(paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 300 {
		return s[len(s)-300:]
	}
	return s
}
