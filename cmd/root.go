package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hanscan",
	Short: "Repository hygiene gate for disallowed CJK content",
	Long: `hanscan scans the Java and frontend source trees for CJK ideographs
and full-width punctuation embedded in source code, classifies each
occurrence by its syntactic region (comment, string literal, template,
identifier), and reports the findings for CI triage.`,
	SilenceUsage: true,
}

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./hanscan.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or console (overrides config)")
}
