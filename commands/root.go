// Package commands implements the podcast command line.
package commands

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfg "github.com/maastricht-university/podcast-pipeline/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	logJSON bool
	offline bool

	conf *cfg.Root
	log  = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "podcast",
	Short: "Turn dialogue scripts into podcast audio",
	Long: `podcast renders "Speaker: text" scripts to a single WAVE file.

Every distinct speaker gets a voice from the configured pool, each line is
synthesized through the configured speech service and the segments are
joined in script order.

Examples:
  # Generate a scenario and render it
  podcast generate --title "Tide pools" --keywords "crabs, anemones"

  # Render an existing script
  podcast synth -f episode.txt -o episode.wav

  # Preview the cast without calling any service
  podcast parse -f episode.txt
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the command line. Cancelling ctx aborts a run between lines.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config/$CONFIG_ENV/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "render test tones instead of calling the speech service")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(configCmd)
}

func setup(*cobra.Command, []string) error {
	var err error
	conf, err = cfg.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	configureLogger(log, conf.Pipeline.LogLvl)
	return nil
}

func configureLogger(l *logrus.Logger, level string) {
	l.SetOutput(os.Stderr)
	if logJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	l.SetLevel(lvl)
}
