package cmd

import (
	"fmt"

	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", paths.ConfigFile)
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if paths.ConfigExists() && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", paths.ConfigFile)
		}
		if err := internal.SaveConfig(paths.ConfigFile, cfg); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), "Wrote "+paths.ConfigFile)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
