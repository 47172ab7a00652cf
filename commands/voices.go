package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/podcast-pipeline/synth"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices of the speech service and mark the configured pool",
	RunE:  runVoices,
}

func runVoices(cmd *cobra.Command, _ []string) error {
	sp, closeSpeaker, err := newSpeaker(conf)
	if err != nil {
		return err
	}
	defer closeSpeaker()

	w := cmd.OutOrStdout()
	voices, ok, err := listVoices(cmd.Context(), sp)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(w, dimStyle.Render("speech service cannot list voices; configured pool:"))
		for _, v := range conf.Voices.Pool {
			fmt.Fprintf(w, "  %s\n", v)
		}
		return nil
	}
	for _, v := range voices {
		if slices.Contains(conf.Voices.Pool, v) {
			fmt.Fprintf(w, "  %s %s\n", speakerStyle.Render(v), dimStyle.Render("(pool)"))
		} else {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}
	for _, v := range conf.Voices.Pool {
		if !slices.Contains(voices, v) {
			log.WithField("voice", v).Warn("pool voice not offered by the speech service")
		}
	}
	return nil
}

// listVoices asks sp for its voices. ok is false when the back-end, or the
// one a cache wraps, cannot list them.
func listVoices(ctx context.Context, sp synth.Speaker) (voices []string, ok bool, err error) {
	lister, isLister := sp.(synth.VoiceLister)
	if !isLister {
		return nil, false, nil
	}
	voices, err = lister.Voices(ctx)
	if errors.Is(err, synth.ErrNoVoiceList) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return voices, true, nil
}
