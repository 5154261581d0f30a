package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/wordrec"
)

func (c *CLI) newInspectCommand() *cobra.Command {
	var modelsPath string
	var item int

	cmd := &cobra.Command{
		Use:   "inspect <word> [test-set]",
		Short: "Show the most likely state path of a test item under a word model",
		Args:  cobra.RangeArgs(1, 2),
		Example: `  wordrec inspect JOHN --item 3
  wordrec inspect JOHN data/test.json --item 3 --models models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			word := args[0]
			if modelsPath == "" {
				modelsPath = c.cfg.Models
			}
			ts, _, err := c.loadTestSet(args[1:])
			if err != nil {
				return err
			}
			models, err := wordrec.LoadModels(cmdContext(cmd), modelsPath, c.cfg.Load.Jobs)
			if err != nil {
				return err
			}

			paths, err := wordrec.DecodeItem(models, ts, word, item)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Item %d (%s) under %s\n", item, ts.Wordlist()[item], word)
			for i, p := range paths {
				states := make([]string, len(p.States))
				for t, s := range p.States {
					states[t] = fmt.Sprint(s)
				}
				fmt.Fprintf(out, "  sequence %d: log P = %.3f\n    %s\n", i, p.LogProb, strings.Join(states, " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelsPath, "models", "", "Model bundle file or directory (default: from config)")
	cmd.Flags().IntVar(&item, "item", 0, "Test item index")
	return cmd
}
