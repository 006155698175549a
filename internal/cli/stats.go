package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/tracker"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show income/expense statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("period", "P", "month", "Stats period (day, week, month)")
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	period, _ := cmd.Flags().GetString("period")

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := t.Stats(cmd.Context(), ownerID(cfg), tracker.StatsPeriod(period))
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}

	fmt.Printf("Period:   %s .. %s\n", summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02"))
	fmt.Printf("Income:   %.2f\n", summary.Income)
	fmt.Printf("Expenses: %.2f\n", summary.Expenses)
	fmt.Printf("Balance:  %.2f\n", summary.Balance)

	if len(summary.ByCategory) == 0 {
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CATEGORY\tAMOUNT\tSHARE\n")
	for _, c := range summary.ByCategory {
		fmt.Fprintf(w, "%s\t%.2f\t%.1f%%\n", c.Name, c.Amount, c.Percentage)
	}
	w.Flush()

	return nil
}
