package cli

import (
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/seed"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newSeedCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the food and exercise catalog",
		Long:  "Upserts foods and exercises by name. Without --file the built-in catalog is used.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(file)
			if err != nil {
				return err
			}
			return a.withDB(func(db *gorm.DB) error {
				report, err := seed.Run(cmd.Context(), services.NewCatalogService(db, nil), cat)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Foods: %d added, %d updated\n", report.FoodsCreated, report.FoodsUpdated)
				fmt.Fprintf(out, "Exercises: %d added, %d updated\n", report.ExercisesCreated, report.ExercisesUpdated)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to load instead of the built-in one")
	return cmd
}

func loadCatalog(path string) (*seed.Catalog, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return seed.Parse(data)
}
