package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/podcast-pipeline/orchestrator"
	"github.com/maastricht-university/podcast-pipeline/sink"
)

var (
	genTitle      string
	genKeywords   string
	genScriptOnly bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a scenario from a title and keywords, then render it",
	Long: `Ask the generation service for a short podcast scenario and render it.

With --script-only the scenario is printed and nothing is synthesized.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genTitle, "title", "t", "", "podcast title")
	generateCmd.Flags().StringVarP(&genKeywords, "keywords", "k", "", "comma separated keywords")
	generateCmd.Flags().BoolVar(&genScriptOnly, "script-only", false, "print the scenario without rendering")
	_ = generateCmd.MarkFlagRequired("title")
	_ = generateCmd.MarkFlagRequired("keywords")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	gen, err := newGenerator(ctx, conf)
	if err != nil {
		return err
	}

	if genScriptOnly {
		sc, err := orchestrator.NewPipeline(conf, nil, orchestrator.WithGenerator(gen), orchestrator.WithLogger(log)).
			Generate(ctx, genTitle, genKeywords)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sc.Script)
		return nil
	}

	sp, closeSpeaker, err := newSpeaker(conf)
	if err != nil {
		return err
	}
	defer closeSpeaker()
	out, err := newSink(conf)
	if err != nil {
		return err
	}

	p := orchestrator.NewPipeline(conf, sp,
		orchestrator.WithGenerator(gen),
		orchestrator.WithLogger(log),
		orchestrator.WithProgress(progressLogger()),
	)
	sc, err := p.Generate(ctx, genTitle, genKeywords)
	if err != nil {
		return err
	}
	log.WithField("speakers", sc.Speakers).Info("scenario generated")

	res, err := p.RunDetailed(ctx, sc.Script)
	if err != nil {
		return err
	}
	loc, err := out.Put(ctx, sink.Artifact{Result: res, Title: sc.Title, Script: sc.Script})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), loc)
	return nil
}
