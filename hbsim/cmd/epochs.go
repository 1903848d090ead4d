package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/hbsim/datarecording"
	"github.com/sarchlab/hbsim/report"
)

var epochsCmd = &cobra.Command{
	Use:   "epochs",
	Short: "Print the per-epoch target cache counters of a recording.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		if dbPath == "" {
			return errors.New("--db is required")
		}

		reader, err := datarecording.NewReader(datarecording.Filename(dbPath))
		if err != nil {
			return err
		}
		defer reader.Close()

		summaries, err := report.ReadEpochSummaries(cmd.Context(), reader)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%6s %-16s %12s %12s %12s %12s %12s %12s\n",
			"epoch", "name", "accesses", "load:miss", "load:hit",
			"store:miss", "store:hit", "evictions")

		for _, s := range summaries {
			fmt.Fprintf(w, "%6d %-16s %12d %12d %12d %12d %12d %12d\n",
				s.Epoch, s.Name, s.Accesses, s.LoadMisses, s.LoadHits,
				s.StoreMisses, s.StoreHits, s.Evictions)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(epochsCmd)
	epochsCmd.Flags().String("db", "", "The SQLite recording to read.")
}
