package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/wordrec/internal/history"
	"github.com/happyhackingspace/wordrec/internal/report"
)

func (c *CLI) newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded recognition runs",
		Example: `  wordrec history
  wordrec history --limit 5
  wordrec history show 3f2a`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(c.cfg.History.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.List(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tWER\tCORRECT\tFAILURES\tTEST SET")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%.4f\t%d/%d\t%d\t%s\n",
					r.ID[:8], r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.WER, r.Correct(), r.NumItems, r.Failures, r.TestSet)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the error listing of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(c.cfg.History.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := store.Get(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s  %s\nModels: %s\nTest set: %s\nPolicy: %s\n\n",
				run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"), run.Models, run.TestSet, run.Policy)
			summary := report.New(run.Words, run.Guesses, nil, run.WER, run.Failures)
			report.WriteText(out, summary, report.TextOptions{Color: !color.NoColor})
			return nil
		},
	}
	cmd.AddCommand(showCmd)
	return cmd
}
