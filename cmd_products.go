package main

import (
	"github.com/spf13/cobra"

	"groco-backend/internal/catalog"
)

var (
	filterCategory string
	filterSearch   string
	filterMaxPrice float64
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List catalog products",
	Example: `  groco products --category fruits
  groco products --search organic --max-price 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := catalog.Load(cfg.Shop.CatalogPath)
		if err != nil {
			return err
		}
		printProducts(cmd.OutOrStdout(), cat.Filter(catalog.Filter{
			Query:    filterSearch,
			Category: filterCategory,
			MaxPrice: filterMaxPrice,
		}))
		return nil
	},
}

func init() {
	productsCmd.Flags().StringVar(&filterCategory, "category", "", "Only products of this category")
	productsCmd.Flags().StringVarP(&filterSearch, "search", "s", "", "Match name or description")
	productsCmd.Flags().Float64Var(&filterMaxPrice, "max-price", 0, "Price ceiling (0 for none)")
}
