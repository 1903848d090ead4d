package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/hbsim/config"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the power and latency tables and energy parameters.",
	Long: "Print the power and latency tables used by the energy models. " +
		"The tables compiled into hbsim are printed unless --tables is given.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tablesFile, _ := cmd.Flags().GetString("tables")

		cfg := config.Default()
		cfg.TablesFile = tablesFile

		tables, err := cfg.Tables()
		if err != nil {
			return err
		}

		return tables.Write(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.Flags().String("tables", os.Getenv(config.EnvName("tables")),
		"A YAML file with the power and latency tables and energy parameters.")
}
