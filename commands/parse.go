package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/podcast-pipeline/orchestrator"
	"github.com/maastricht-university/podcast-pipeline/synth"
)

var parseFile string

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Show the parsed lines and the voice cast of a script",
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "script file (default: stdin)")
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	speakerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runParse(cmd *cobra.Command, _ []string) error {
	raw, err := readScript(cmd, parseFile)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	lines, cast, err := orchestrator.NewPipeline(conf, nil, orchestrator.WithLogger(log)).Cast(raw)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, headerStyle.Render("Cast"))
	for _, s := range cast {
		fmt.Fprintf(w, "  %s %s\n", speakerStyle.Render(s.Label), dimStyle.Render("-> "+s.Voice))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Lines (%d)", len(lines))))
	var est float64
	for _, l := range lines {
		d := synth.EstimateDuration(l.Text, conf.Voices.Rate)
		est += d.Seconds()
		fmt.Fprintf(w, "  %s %s: %s\n", dimStyle.Render(fmt.Sprintf("%3d", l.Ordinal)), speakerStyle.Render(l.Speaker), l.Text)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("estimated length %.1fs", est)))
	return nil
}
