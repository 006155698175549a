package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pelestrom/mondjai-budget-manager/internal/config"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/budget"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/tracker"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage spending budgets",
}

var budgetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update a category budget",
	RunE:  runBudgetSet,
}

var budgetSetGlobalCmd = &cobra.Command{
	Use:   "set-global",
	Short: "Replace the global budget",
	Long:  `Replace the single global budget covering all expenses. Any previous global budget is removed.`,
	RunE:  runBudgetSetGlobal,
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current budget status",
	RunE:  runBudgetStatus,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
	budgetCmd.AddCommand(budgetSetCmd)
	budgetCmd.AddCommand(budgetSetGlobalCmd)
	budgetCmd.AddCommand(budgetStatusCmd)

	for _, cmd := range []*cobra.Command{budgetSetCmd, budgetSetGlobalCmd} {
		cmd.Flags().Float64P("amount", "a", 0, "Spending limit")
		cmd.Flags().StringP("period", "P", "monthly", "Budget period (monthly, weekly, custom)")
		cmd.Flags().String("start", "", "Start date for custom period (YYYY-MM-DD)")
		cmd.Flags().String("end", "", "End date for custom period (YYYY-MM-DD)")
		_ = cmd.MarkFlagRequired("amount")
	}
	budgetSetCmd.Flags().StringP("category", "c", "", "Category id the budget applies to")
	budgetSetCmd.Flags().String("id", "", "Budget id to update (new budget when empty)")
	_ = budgetSetCmd.MarkFlagRequired("category")
}

func budgetFromFlags(cmd *cobra.Command, cfg *config.Config) *model.Budget {
	amount, _ := cmd.Flags().GetFloat64("amount")
	period, _ := cmd.Flags().GetString("period")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")

	return &model.Budget{
		OwnerID:   ownerID(cfg),
		Amount:    amount,
		Period:    model.BudgetPeriod(period),
		StartDate: start,
		EndDate:   end,
	}
}

func runBudgetSet(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	b := budgetFromFlags(cmd, cfg)
	b.ID, _ = cmd.Flags().GetString("id")
	b.CategoryID, _ = cmd.Flags().GetString("category")

	if err := t.SetBudget(cmd.Context(), b); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}

	fmt.Printf("Budget set:\n")
	fmt.Printf("  ID:       %s\n", b.ID)
	fmt.Printf("  Category: %s\n", b.CategoryID)
	fmt.Printf("  Amount:   %.2f\n", b.Amount)
	fmt.Printf("  Period:   %s\n", b.Period)

	return nil
}

func runBudgetSetGlobal(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	b := budgetFromFlags(cmd, cfg)
	if err := t.SetGlobalBudget(cmd.Context(), b); err != nil {
		return fmt.Errorf("set global budget: %w", err)
	}

	fmt.Printf("Global budget set:\n")
	fmt.Printf("  Amount: %.2f\n", b.Amount)
	fmt.Printf("  Period: %s\n", b.Period)

	return nil
}

func runBudgetStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	ownr := ownerID(cfg)

	global, catBudgets, err := t.Budgets(ctx, ownr)
	if err != nil {
		return fmt.Errorf("list budgets: %w", err)
	}
	if global == nil && len(catBudgets) == 0 {
		fmt.Println("No budgets configured. Use 'mondjai budget set' to create one.")
		return nil
	}

	txs, err := t.Transactions(ctx, ownr)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	cats, err := t.Categories(ctx, ownr)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	catNames := make(map[string]string, len(cats))
	for _, c := range cats {
		catNames[c.ID] = c.Name
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "BUDGET\tPERIOD\tLIMIT\tSPENT\tREMAINING\tUSAGE\n")

	printRow := func(label string, b model.Budget, category string) {
		interval := model.ResolvePeriod(b.Period, b.StartDate, b.EndDate, now)
		spent := budget.SumExpenses(txs, category, interval)
		remaining := b.Amount - spent
		if remaining < 0 {
			remaining = 0
		}
		pct := spent / b.Amount * 100

		status := ""
		switch budget.Classify(spent, b.Amount) {
		case budget.StageExceeded:
			status = " [EXCEEDED]"
		case budget.StageWarning:
			status = " [WARNING]"
		case budget.StageMidpoint:
			status = " [HALFWAY]"
		}
		if budget.Expired(b.Period, b.EndDate, now) {
			status = " [EXPIRED]"
		}

		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.1f%%%s\n",
			label, b.Period, b.Amount, spent, remaining, pct, status)
	}

	if global != nil {
		printRow("(global)", *global, "")
	}
	for _, b := range catBudgets {
		name, ok := catNames[b.CategoryID]
		if !ok {
			// Category was deleted; the evaluator skips these too.
			name = b.CategoryID + " (orphaned)"
			fmt.Fprintf(w, "%s\t%s\t%.2f\t-\t-\t-\n", name, b.Period, b.Amount)
			continue
		}
		printRow(name, b, name)
	}
	w.Flush()

	return nil
}

// runEvaluate is shared by commands that force an evaluation pass.
func runEvaluate(ctx context.Context, t *tracker.Tracker, ownr string) error {
	n, err := t.Evaluate(ctx, ownr)
	if err != nil {
		return fmt.Errorf("evaluate budgets: %w", err)
	}
	fmt.Printf("Evaluation complete: %d notification(s) emitted\n", n)
	return nil
}

var budgetCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a budget evaluation pass now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		t, store, err := initTracker(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		return runEvaluate(cmd.Context(), t, ownerID(cfg))
	},
}

func init() {
	budgetCmd.AddCommand(budgetCheckCmd)
}
