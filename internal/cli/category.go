package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/tracker"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage transaction categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE:  runCategoryList,
}

var categoryInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed starter categories",
	Long:  `Seed the starter category set, from the configured YAML file if present, otherwise the built-in defaults. Existing categories are left alone.`,
	RunE:  runCategoryInit,
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryInitCmd)

	categoryAddCmd.Flags().String("icon", "", "Symbolic icon name")
	categoryAddCmd.Flags().String("color", "", "Display color (hex)")
	categoryAddCmd.Flags().StringSlice("subcategories", nil, "Comma-separated subcategory names")
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	icon, _ := cmd.Flags().GetString("icon")
	color, _ := cmd.Flags().GetString("color")
	subs, _ := cmd.Flags().GetStringSlice("subcategories")

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cat := &model.Category{
		OwnerID:       ownerID(cfg),
		Name:          args[0],
		Icon:          icon,
		Color:         color,
		Subcategories: subs,
	}
	if err := t.AddCategory(cmd.Context(), cat); err != nil {
		return fmt.Errorf("add category: %w", err)
	}

	fmt.Printf("Added category %q (%s)\n", cat.Name, cat.ID)
	return nil
}

func runCategoryList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cats, err := t.Categories(cmd.Context(), ownerID(cfg))
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	if len(cats) == 0 {
		fmt.Println("No categories yet. Use 'mondjai category init' to seed the defaults.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tICON\tCOLOR\tSUBCATEGORIES\n")
	for _, c := range cats {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Icon, c.Color, strings.Join(c.Subcategories, ", "))
	}
	w.Flush()

	return nil
}

func runCategoryInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, store, err := initTracker(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	seeds := tracker.DefaultCategorySeeds()
	if cfg.Categories.File != "" {
		seeds, err = tracker.LoadCategorySeeds(cfg.Categories.File)
		if err != nil {
			return fmt.Errorf("load category seeds: %w", err)
		}
	}

	created, err := t.SeedCategories(cmd.Context(), ownerID(cfg), seeds)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	fmt.Printf("Seeded %d categor%s\n", created, plural(created, "y", "ies"))
	return nil
}

func plural(n int, singular, pl string) string {
	if n == 1 {
		return singular
	}
	return pl
}
