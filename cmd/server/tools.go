package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"greenhouse/pkg/care"
	"greenhouse/pkg/climate"
)

func nextCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "next <schedule>",
		Short: "Print the next due date for a care schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := care.DateOnly(time.Now())
			if from != "" {
				d, err := care.ParseDate(from)
				if err != nil {
					return err
				}
				start = d
			}
			next, err := care.NextDue(args[0], start)
			if err != nil {
				return err
			}
			if next == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "never")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), next.Format(care.DateLayout))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD), defaults to today")
	return cmd
}

func classifyCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "classify <metric> <value>",
		Short: "Classify a reading against the threshold bands",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := climate.ParseMetric(args[0])
			if err != nil {
				return err
			}
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("value %q: %w", args[1], err)
			}
			eval := climate.NewEvaluator()
			if file != "" {
				if eval, err = climate.LoadFromFile(file); err != nil {
					return err
				}
			}
			s := eval.Classify(m, v)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %g: %s (%s) %s\n", s.Metric, s.Value, s.Tier, s.Direction, s.Color)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "thresholds", "", "CSV or XLSX file overriding the default bands")
	return cmd
}
