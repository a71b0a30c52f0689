package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pricelab/carval/internal/features"
)

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the feature columns the model expects",
		Long: `Print the full feature column set, one per line.

When the configured artifact persists its training column order, that
order is printed. Otherwise the columns are derived from the vocabulary
in canonical sorted order, which is only trustworthy if training sorted
its columns the same way.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			columns, err := expectedColumns()
			if err != nil {
				return err
			}
			for _, col := range columns {
				fmt.Println(col)
			}
			return nil
		},
	}
}

func expectedColumns() ([]string, error) {
	artifact, err := loadPredictor()
	if err == nil {
		if schema := artifact.Schema(); schema != nil {
			return schema, nil
		}
		slog.Debug("Artifact owns its encoding; deriving columns from vocabulary")
	} else {
		slog.Warn("Could not load artifact, deriving columns from vocabulary", "error", err)
	}

	v, err := loadVocabulary()
	if err != nil {
		return nil, err
	}
	return features.NewBuilder(v).ExpectedColumns(), nil
}
