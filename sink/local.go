package sink

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Local writes each run to <Root>/session_<timestamp>_<run>/ as
// podcast.wav, script.txt and manifest.json.
type Local struct {
	Root string
}

var _ Sink = (*Local)(nil)

func mkSessionDir(outputsRoot, runID string) (string, error) {
	ts := time.Now().Format("20060102-150405")
	sid := "session_" + ts
	if len(runID) >= 8 {
		sid += "_" + runID[:8]
	}
	dir := filepath.Join(outputsRoot, sid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeWAV(path string, a Artifact) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := a.Result.File.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Put implements Sink and returns the path of the WAV file.
func (l *Local) Put(_ context.Context, a Artifact) (string, error) {
	dir, err := mkSessionDir(l.Root, a.Result.RunID)
	if err != nil {
		return "", err
	}

	wavPath := filepath.Join(dir, "podcast.wav")
	if err := writeWAV(wavPath, a); err != nil {
		return "", err
	}
	if a.Script != "" {
		if err := os.WriteFile(filepath.Join(dir, "script.txt"), []byte(a.Script), 0o644); err != nil {
			return "", err
		}
	}
	if err := writeJSON(filepath.Join(dir, "manifest.json"), NewManifest(a)); err != nil {
		return "", err
	}
	return wavPath, nil
}
