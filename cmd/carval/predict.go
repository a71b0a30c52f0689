package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pricelab/carval/internal/cli"
	"github.com/pricelab/carval/internal/model"
)

func predictCmd() *cobra.Command {
	record := model.VehicleRecord{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate the resale price of one vehicle",
		Long: `Estimate what a used car will resell for.

All vehicle details are passed as flags; brand and model must come from
the vocabulary the model was trained with (see 'carval vocabulary').`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			if store != nil {
				defer func() { _ = store.Close() }()
			}

			estimate, err := eng.PredictPrice(cmd.Context(), &record)
			if err != nil {
				return err
			}

			body := fmt.Sprintf("%s %s (%d)\n\n%s\n\n%s",
				record.Brand, record.Model, record.Year,
				cli.PriceStyle.Render(fmt.Sprintf("Estimated price: $%.2f", estimate.Price)),
				cli.SubtleStyle.Render(fmt.Sprintf("Car age: %d years  ·  Average mileage: %.0f km/year",
					estimate.CarAge, estimate.MileagePerYear)))
			fmt.Println(cli.BoxStyle.Render(body))
			return nil
		},
	}

	cmd.Flags().StringVar(&record.Brand, "brand", "", "vehicle brand (required)")
	cmd.Flags().StringVar(&record.Model, "model", "", "vehicle model (required)")
	cmd.Flags().IntVar(&record.Year, "year", 2018, "year of manufacture")
	cmd.Flags().Float64Var(&record.EngineSize, "engine-size", 2.0, "engine size in liters")
	cmd.Flags().StringVar(&record.FuelType, "fuel-type", "Petrol", "fuel type")
	cmd.Flags().StringVar(&record.Transmission, "transmission", "Automatic", "transmission")
	cmd.Flags().IntVar(&record.Mileage, "mileage", 50000, "mileage in km")
	cmd.Flags().IntVar(&record.Doors, "doors", 4, "number of doors")
	cmd.Flags().IntVar(&record.OwnerCount, "owners", 1, "number of previous owners")
	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}
