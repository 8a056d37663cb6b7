package perfcompare

import (
	"github.com/mengfei25/torch-xpu-ops/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			d := appconfig.Defaults()
			cfg = &d
		}
		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			return appconfig.Dump(cmd.OutOrStdout(), *cfg)
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), *cfg)
		return nil
	},
}

func init() {
	showConfigCmd.Flags().Bool("raw", false, "dump the full configuration struct")
	showCmd.AddCommand(showConfigCmd)
}
