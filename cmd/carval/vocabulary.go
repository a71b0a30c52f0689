package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pricelab/carval/internal/cli"
)

func vocabularyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vocabulary",
		Short: "List the categories the model was trained with",
		Long: `Display the brands, models, fuel types, and transmissions the
pricing model knows about. Records outside this vocabulary are rejected.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			v, err := loadVocabulary()
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Brands and models"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, brand := range v.Brands {
				fmt.Fprintf(w, "%s\t%s\n", brand, strings.Join(v.ModelsByBrand[brand], ", "))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Println()
			fmt.Println(cli.TitleStyle.Render("Other fields"))
			fmt.Printf("Fuel types:\t%s\n", strings.Join(v.FuelTypes, ", "))
			fmt.Printf("Transmissions:\t%s\n", strings.Join(v.Transmissions, ", "))
			fmt.Printf("Doors:\t%s\n", joinInts(v.Doors))
			return nil
		},
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
