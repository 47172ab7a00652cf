package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/podcast-pipeline/audio"
	"github.com/maastricht-university/podcast-pipeline/orchestrator"
	"github.com/maastricht-university/podcast-pipeline/sink"
)

var (
	synthFile   string
	synthOutput string
	synthTitle  string
	synthVerify bool
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Render a dialogue script to WAVE",
	Long: `Render a "Speaker: text" script read from -f (or stdin).

The file is written to -o when given, otherwise it is handed to the
configured sink.`,
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().StringVarP(&synthFile, "file", "f", "", "script file (default: stdin)")
	synthCmd.Flags().StringVarP(&synthOutput, "output", "o", "", "write the WAVE file here instead of the sink")
	synthCmd.Flags().StringVar(&synthTitle, "title", "", "title recorded in the manifest")
	synthCmd.Flags().BoolVar(&synthVerify, "verify", false, "re-read the header of the written file")
}

func readScript(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func runSynth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	raw, err := readScript(cmd, synthFile)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	sp, closeSpeaker, err := newSpeaker(conf)
	if err != nil {
		return err
	}
	defer closeSpeaker()

	p := orchestrator.NewPipeline(conf, sp,
		orchestrator.WithLogger(log),
		orchestrator.WithProgress(progressLogger()),
	)
	res, err := p.RunDetailed(ctx, raw)
	if err != nil {
		return err
	}

	if synthOutput == "" {
		out, err := newSink(conf)
		if err != nil {
			return err
		}
		loc, err := out.Put(ctx, sink.Artifact{Result: res, Title: synthTitle, Script: raw})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loc)
		return nil
	}

	if err := os.WriteFile(synthOutput, res.File.Bytes(), 0o644); err != nil {
		return err
	}
	if synthVerify {
		if err := verifyWAV(synthOutput, res.File.Header); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), synthOutput)
	return nil
}

func verifyWAV(path string, want audio.Header) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	got, err := audio.ParseHeader(b)
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	if got != want {
		return fmt.Errorf("verify %s: header %+v, wrote %+v", path, got, want)
	}
	if len(b) != audio.HeaderSize+int(got.DataSize) {
		return fmt.Errorf("verify %s: %d bytes on disk, header declares %d", path, len(b), audio.HeaderSize+int(got.DataSize))
	}
	log.WithField("format", got.Format().String()).Debug("verified")
	return nil
}
