package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pricelab/carval/internal/cli"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent price estimates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			estimates, err := store.ListEstimates(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(estimates) == 0 {
				fmt.Println(cli.InfoStyle.Render("No estimates recorded yet. Run 'carval predict' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tVEHICLE\tYEAR\tPRICE\tSTRATEGY")
			for _, e := range estimates {
				fmt.Fprintf(w, "%s\t%s %s\t%d\t$%.2f\t%s\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					e.Vehicle.Brand, e.Vehicle.Model,
					e.Vehicle.Year,
					e.Price,
					e.Strategy)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of estimates to show")

	return cmd
}
