// Package sink delivers finished podcasts: to a session directory on disk or
// to an S3-compatible bucket.
package sink

import (
	"context"
	"time"

	"github.com/maastricht-university/podcast-pipeline/orchestrator"
)

// Manifest describes a stored podcast.
type Manifest struct {
	RunID       string            `json:"run_id"`
	Title       string            `json:"title,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Format      string            `json:"format"`
	Bytes       int               `json:"bytes"`
	DurationSec float64           `json:"duration_sec"`
	Speakers    []ManifestSpeaker `json:"speakers"`
	Lines       int               `json:"lines"`
}

type ManifestSpeaker struct {
	Label string `json:"label"`
	Voice string `json:"voice"`
}

// Sink stores the artifact of one run and returns where it went.
type Sink interface {
	Put(ctx context.Context, a Artifact) (string, error)
}

// Artifact is what a sink persists.
type Artifact struct {
	Result *orchestrator.Result
	Title  string
	Script string
}

// NewManifest describes a run result.
func NewManifest(a Artifact) Manifest {
	res := a.Result
	f := res.File.Header.Format()
	m := Manifest{
		RunID:       res.RunID,
		Title:       a.Title,
		GeneratedAt: time.Now().UTC(),
		Format:      f.String(),
		Bytes:       res.File.Len(),
		DurationSec: f.Duration(int(res.File.Header.DataSize) / max(1, f.BlockAlign())).Seconds(),
		Lines:       len(res.Lines),
	}
	for _, s := range res.Speakers {
		m.Speakers = append(m.Speakers, ManifestSpeaker{Label: s.Label, Voice: s.Voice})
	}
	return m
}
