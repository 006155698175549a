package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Manage transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction",
	Long:  `Record a single income or expense entry. Budgets are re-evaluated immediately.`,
	RunE:  runTxAdd,
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	RunE:  runTxList,
}

var txDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxDelete,
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txDeleteCmd)

	txAddCmd.Flags().Float64P("amount", "a", 0, "Amount (non-negative)")
	txAddCmd.Flags().StringP("type", "t", "expense", "Transaction type (income, expense)")
	txAddCmd.Flags().StringP("category", "c", "", "Category name")
	txAddCmd.Flags().String("subcategory", "", "Subcategory name")
	txAddCmd.Flags().String("note", "", "Free-form note")
	txAddCmd.Flags().String("date", "", "Date (RFC 3339 or YYYY-MM-DD, default now)")
	txAddCmd.Flags().Bool("fixed", false, "Mark as a fixed recurring expense")
	_ = txAddCmd.MarkFlagRequired("amount")
}

func runTxAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	amount, _ := cmd.Flags().GetFloat64("amount")
	txType, _ := cmd.Flags().GetString("type")
	category, _ := cmd.Flags().GetString("category")
	subcategory, _ := cmd.Flags().GetString("subcategory")
	note, _ := cmd.Flags().GetString("note")
	date, _ := cmd.Flags().GetString("date")
	fixed, _ := cmd.Flags().GetBool("fixed")

	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	tx := &model.Transaction{
		OwnerID:     ownerID(cfg),
		Amount:      amount,
		Type:        model.TransactionType(txType),
		Category:    category,
		Subcategory: subcategory,
		Note:        note,
		Date:        date,
		IsFixed:     fixed,
	}
	if err := t.AddTransaction(cmd.Context(), tx); err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}

	fmt.Printf("Recorded transaction:\n")
	fmt.Printf("  ID:       %s\n", tx.ID)
	fmt.Printf("  Type:     %s\n", tx.Type)
	fmt.Printf("  Amount:   %.2f\n", tx.Amount)
	fmt.Printf("  Category: %s\n", tx.Category)
	fmt.Printf("  Date:     %s\n", tx.Date)

	return nil
}

func runTxList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	txs, err := t.Transactions(cmd.Context(), ownerID(cfg))
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	if len(txs) == 0 {
		fmt.Println("No transactions yet. Use 'mondjai tx add' to record one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tNOTE\n")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			tx.ID, tx.Date, tx.Type, tx.Amount, tx.Category, tx.Note)
	}
	w.Flush()

	return nil
}

func runTxDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := t.DeleteTransaction(cmd.Context(), ownerID(cfg), args[0]); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	fmt.Printf("Deleted transaction %s\n", args[0])
	return nil
}
