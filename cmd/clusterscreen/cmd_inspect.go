package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/screenlab/clusterscreen/internal/config"
	"github.com/screenlab/clusterscreen/internal/dataset"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <suite.yaml>",
		Short: "Summarize the suite's dataset without running any detector",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectCommandE,
	}
}

func inspectCommandE(cmd *cobra.Command, args []string) error {
	suite, err := config.Load(args[0])
	if err != nil {
		return err
	}

	dc := suite.Dataset
	ds, err := dataset.Load(dc.Path, dataset.Options{
		LabelColumn:   dc.LabelColumn,
		PositiveToken: dc.PositiveLabel,
		DropColumns:   dc.DropColumns,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Suite: %s\n", suite.Name)
	fmt.Fprintf(out, "Dataset: %s\n", dc.Path)
	fmt.Fprintf(out, "Samples: %s (%s positive, %s negative)\n",
		countPrinter.Sprintf("%d", ds.Len()),
		countPrinter.Sprintf("%d", ds.Positives()),
		countPrinter.Sprintf("%d", ds.Len()-ds.Positives()))
	fmt.Fprintf(out, "Features: %d\n", ds.Dim())
	fmt.Fprintf(out, "Detectors: %d\n\n", len(suite.Detectors))

	nameWidth := len("Feature")
	for _, n := range ds.FeatureNames {
		if w := len(truncateName(n, 32)); w > nameWidth {
			nameWidth = w
		}
	}

	fmt.Fprintf(out, "%s  %12s  %12s  %12s  %12s\n",
		padRight("Feature", nameWidth), "Mean", "StdDev", "Min", "Max")

	column := make([]float64, ds.Len())
	for j, name := range ds.FeatureNames {
		for i := range ds.Features {
			column[i] = ds.Features[i][j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		lo, hi := column[0], column[0]
		for _, v := range column {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		fmt.Fprintf(out, "%s  %12.4g  %12.4g  %12.4g  %12.4g\n",
			padRight(truncateName(name, 32), nameWidth), mean, std, lo, hi)
	}
	return nil
}
