package tracker

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Pelestrom/mondjai-budget-manager/pkg/model"
)

type categorySeed struct {
	Name          string   `yaml:"name"`
	Icon          string   `yaml:"icon"`
	Color         string   `yaml:"color"`
	Subcategories []string `yaml:"subcategories"`
}

type categoryFile struct {
	Categories []categorySeed `yaml:"categories"`
}

// DefaultCategorySeeds returns the built-in starter categories a fresh
// account gets when no seed file is configured.
func DefaultCategorySeeds() []model.Category {
	return []model.Category{
		{Name: "Food", Icon: "UtensilsCrossed", Color: "#FF6B6B"},
		{Name: "Transport", Icon: "Car", Color: "#4ECDC4"},
		{Name: "Housing", Icon: "Home", Color: "#45B7D1"},
		{Name: "Internet", Icon: "Wifi", Color: "#96CEB4"},
		{Name: "Health", Icon: "Heart", Color: "#74B9FF"},
		{Name: "Education", Icon: "GraduationCap", Color: "#00B894"},
		{Name: "Emergencies", Icon: "AlertTriangle", Color: "#FF7675",
			Subcategories: []string{"Illness", "Repairs"}},
	}
}

// LoadCategorySeeds reads starter categories from a YAML file of the form:
//
//	categories:
//	  - name: Food
//	    icon: UtensilsCrossed
//	    color: "#FF6B6B"
//	    subcategories: [Groceries, Restaurants]
func LoadCategorySeeds(path string) ([]model.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	var file categoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse categories file: %w", err)
	}

	cats := make([]model.Category, 0, len(file.Categories))
	for _, seed := range file.Categories {
		if seed.Name == "" {
			return nil, fmt.Errorf("categories file: entry without a name")
		}
		cats = append(cats, model.Category{
			Name:          seed.Name,
			Icon:          seed.Icon,
			Color:         seed.Color,
			Subcategories: seed.Subcategories,
		})
	}
	return cats, nil
}

// SeedCategories inserts the given starter categories for an owner,
// skipping names the owner already has. Returns how many were created.
func (t *Tracker) SeedCategories(ctx context.Context, ownerID string, seeds []model.Category) (int, error) {
	existing, err := t.storage.ListCategories(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, cat := range existing {
		have[cat.Name] = true
	}

	created := 0
	for _, seed := range seeds {
		if have[seed.Name] {
			continue
		}
		cat := seed
		cat.ID = ""
		cat.OwnerID = ownerID
		if err := t.storage.CreateCategory(ctx, &cat); err != nil {
			return created, fmt.Errorf("seed category %q: %w", cat.Name, err)
		}
		created++
	}
	return created, nil
}
