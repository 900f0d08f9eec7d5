package upload

import (
	"testing"

	"ia-video-creator/config"
)

func TestBuildStatusSchedule(t *testing.T) {
	cfg := config.UploadConfig{
		Visibility: "public",
		Schedule:   "2026-09-01T12:00:00Z",
	}
	status := buildStatus(cfg)
	if status.PrivacyStatus != "private" {
		t.Errorf("scheduled video must upload as private, got %q", status.PrivacyStatus)
	}
	if status.PublishAt != cfg.Schedule {
		t.Errorf("PublishAt = %q, want %q", status.PublishAt, cfg.Schedule)
	}
}

func TestBuildStatusScheduleIgnoredWhenPrivate(t *testing.T) {
	cfg := config.UploadConfig{
		Visibility: "private",
		Schedule:   "2026-09-01T12:00:00Z",
	}
	status := buildStatus(cfg)
	if status.PrivacyStatus != "private" || status.PublishAt != "" {
		t.Errorf("schedule should only apply to public uploads: %+v", status)
	}
}

func TestBuildStatusNoSchedule(t *testing.T) {
	cfg := config.UploadConfig{
		Visibility:        "public",
		NotifySubscribers: true,
	}
	status := buildStatus(cfg)
	if status.PrivacyStatus != "public" || status.PublishAt != "" {
		t.Errorf("unscheduled upload altered: %+v", status)
	}
	if !status.NotifySubscribers {
		t.Error("NotifySubscribers lost")
	}
}
