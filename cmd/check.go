package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/hanscan/pkg/config"
	"github.com/user/hanscan/pkg/engine"
	"github.com/user/hanscan/pkg/logging"
	"github.com/user/hanscan/pkg/reporter"
	"github.com/user/hanscan/pkg/runner"
	"github.com/user/hanscan/pkg/walker"
)

var (
	javaOnly     bool
	frontendOnly bool
	failOnFound  bool
	outputFormat string
	baselinePath string
	saveBaseline string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scan the configured source roots for disallowed content",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := initLogging(cfg); err != nil {
			return err
		}
		defer logging.Sync()

		var roots []config.Root
		switch {
		case javaOnly:
			roots = []config.Root{cfg.Discovery.Java}
		case frontendOnly:
			roots = []config.Root{cfg.Discovery.Frontend}
		default:
			roots = []config.Root{cfg.Discovery.Java, cfg.Discovery.Frontend}
		}

		targets := walker.New(cfg.Discovery).Discover(roots...)
		logging.Info("starting scan", zap.Int("files", len(targets)), zap.Int("jobs", cfg.Scan.Jobs))

		run, err := runner.New(cfg)
		if err != nil {
			return err
		}
		report, err := run.Run(targets)
		if err != nil {
			return err
		}

		rep, err := reporter.New(reporter.Format(outputFormat), os.Stdout)
		if err != nil {
			return err
		}

		// Detection vs enforcement: failing counts what was found;
		// failOnFound decides whether that fails the run.
		failing := report.Len()
		if baselinePath != "" {
			baseline := engine.NewReport()
			if err := baseline.LoadSnapshot(baselinePath); err != nil {
				return fmt.Errorf("load baseline %s: %w", baselinePath, err)
			}
			diff := report.CompareSnapshot(baseline)
			rep.RenderDiff(diff)
			failing = len(diff.New)
		} else {
			rep.Render(report)
		}

		if saveBaseline != "" {
			if err := report.SaveSnapshot(saveBaseline); err != nil {
				return fmt.Errorf("save baseline %s: %w", saveBaseline, err)
			}
			logging.Info("baseline saved", zap.String("path", saveBaseline), zap.Int("findings", report.Len()))
		}

		if failing > 0 && failOnFound {
			return fmt.Errorf("%d finding(s) of disallowed content", failing)
		}
		return nil
	},
}

func initLogging(cfg *config.Config) error {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	format := cfg.Log.Format
	if logFormat != "" {
		format = logFormat
	}
	return logging.Init(level, format)
}

func init() {
	checkCmd.Flags().BoolVar(&javaOnly, "java-only", false, "scan only the Java root")
	checkCmd.Flags().BoolVar(&frontendOnly, "frontend-only", false, "scan only the frontend root")
	checkCmd.MarkFlagsMutuallyExclusive("java-only", "frontend-only")
	checkCmd.Flags().BoolVar(&failOnFound, "fail-on-found", true, "exit non-zero when disallowed content is found")
	checkCmd.Flags().StringVar(&outputFormat, "format", string(reporter.FormatText), "output format: text or github")
	checkCmd.Flags().StringVar(&baselinePath, "baseline", "", "compare against a stored baseline; only new findings count")
	checkCmd.Flags().StringVar(&saveBaseline, "save-baseline", "", "write the findings of this run to a baseline file")
	rootCmd.AddCommand(checkCmd)
}
