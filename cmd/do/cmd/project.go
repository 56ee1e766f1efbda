package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/compoundjoy/server/internal/projection"
	"github.com/spf13/cobra"
)

func ProjectCmd() *cobra.Command {
	var params projection.Params
	var cadence string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print a compound growth projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := projection.ParseCadence(cadence)
			if err != nil {
				return err
			}
			params.Cadence = c

			result, err := projection.Project(params)
			if err != nil {
				return err
			}

			return printProjection(cmd.OutOrStdout(), params, result)
		},
	}

	cmd.Flags().Float64Var(&params.Amount, "amount", 25, "deposit per period")
	cmd.Flags().StringVar(&cadence, "cadence", string(projection.Weekly), "weekly or monthly")
	cmd.Flags().IntVar(&params.Years, "years", 3, "horizon in years")
	cmd.Flags().Float64Var(&params.Rate, "rate", 0.07, "annual return as a fraction")
	cmd.Flags().Float64Var(&params.GoalAmount, "goal", 1000, "goal amount for the next-deposit estimate")
	return cmd
}

func printProjection(w io.Writer, params projection.Params, result projection.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "period\tweek\tdeposited\ttotal\t")
	for _, p := range result.Series {
		fmt.Fprintf(tw, "%d\t%.0f\t%s\t%s\t\n", p.Period, p.Week,
			projection.FormatDollars(p.Deposited), projection.FormatDollars(p.Total))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\ntotal %s, deposited %s, interest %s\n",
		projection.FormatDollars(result.Total),
		projection.FormatDollars(result.Deposited),
		projection.FormatDollars(result.InterestEarned))
	fmt.Fprintf(w, "to reach %s in %d months deposit %s per %s period\n",
		projection.FormatDollars(params.GoalAmount),
		result.Months,
		projection.FormatDollars(result.NextDeposit),
		params.Cadence)

	for _, t := range projection.Affordable(result.Total, projection.DefaultTargets) {
		fmt.Fprintf(w, "  could buy: %s (%s)\n", t.Name, projection.FormatDollars(t.Cost))
	}
	return nil
}
