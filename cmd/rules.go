package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/hanscan/pkg/config"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule set and exclusions as YAML",
	Long: `Prints the configuration the scan would run with, after merging the
config file, environment overrides, and defaults. Lets CI owners audit
which exclusion patterns are in effect and why.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		out := struct {
			Rules     config.Rules     `yaml:"rules"`
			Discovery config.Discovery `yaml:"discovery"`
		}{cfg.Rules, cfg.Discovery}

		data, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
