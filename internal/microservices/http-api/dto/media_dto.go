package dto

import (
	"time"

	"mangapress/internal/media"
)

// SweepRequest is the body of POST /api/admin/media/sweep.
type SweepRequest struct {
	Prefix    string `json:"prefix"`
	OlderThan string `json:"olderThan"`
	DryRun    bool   `json:"dryRun"`
}

const defaultSweepGrace = 24 * time.Hour

func (r SweepRequest) Options() (media.SweepOptions, error) {
	opts := media.SweepOptions{Prefix: r.Prefix, OlderThan: defaultSweepGrace, DryRun: r.DryRun}
	if r.OlderThan != "" {
		d, err := time.ParseDuration(r.OlderThan)
		if err != nil || d < 0 {
			return opts, errInvalidGrace
		}
		opts.OlderThan = d
	}
	return opts, nil
}

// SweepResponse lists removed (or, on a dry run, removable) URLs.
type SweepResponse struct {
	Removed []string `json:"removed"`
	DryRun  bool     `json:"dryRun"`
}

// UploadResponse is returned by POST /api/upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// MessageResponse acknowledges deletions.
type MessageResponse struct {
	Message string `json:"message"`
}
