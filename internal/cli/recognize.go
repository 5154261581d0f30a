package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/wordrec"
	"github.com/happyhackingspace/wordrec/internal/dataset"
	"github.com/happyhackingspace/wordrec/internal/history"
	"github.com/happyhackingspace/wordrec/internal/report"
	"github.com/happyhackingspace/wordrec/recognizer"
)

func (c *CLI) newRecognizeCommand() *cobra.Command {
	var modelsPath string
	var policyName string
	var htmlPath string
	var showScores bool
	var showConfusion bool
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "recognize [test-set]",
		Short: "Recognize a test set and report the word error rate",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Use models and test set from wordrec.toml
  wordrec recognize

  # Recognize a local test set with a models directory
  wordrec recognize data/test.json --models models

  # Fetch the test set from a URL
  wordrec recognize https://example.org/asl/test.json

  # Pipe a test set
  cat data/test.json | wordrec recognize

  # Count missing guesses as errors instead of failing
  wordrec recognize --policy pad

  # Show every score and the confusion matrix, write an HTML report
  wordrec recognize --scores --confusion --html report.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelsPath == "" {
				modelsPath = c.cfg.Models
			}
			if policyName == "" {
				policyName = c.cfg.Evaluate.LengthPolicy
			}
			policy, err := recognizer.ParseLengthPolicy(policyName)
			if err != nil {
				return err
			}

			ts, source, err := c.loadTestSet(args)
			if err != nil {
				return err
			}

			start := time.Now()
			models, err := wordrec.LoadModels(cmdContext(cmd), modelsPath, c.cfg.Load.Jobs)
			if err != nil {
				return err
			}
			slog.Debug("Models loaded", "words", models.Len(), "duration", time.Since(start))

			start = time.Now()
			result, err := wordrec.Evaluate(models, ts, &wordrec.EvalConfig{Policy: policy})
			if err != nil {
				return err
			}
			slog.Debug("Recognition completed", "items", ts.NumItems(), "duration", time.Since(start))

			out := cmd.OutOrStdout()
			if showScores {
				report.WriteScores(out, result.Scores, result.Guesses, result.Labels)
				fmt.Fprintln(out)
			}
			summary := report.New(result.Words, result.Guesses, ts.Videos(), result.WER, result.Failures)
			report.WriteText(out, summary, report.TextOptions{
				Color:     !color.NoColor,
				Confusion: showConfusion,
			})

			if htmlPath != "" {
				if err := writeHTMLReport(htmlPath, summary, source); err != nil {
					return err
				}
				slog.Info("HTML report written", "path", htmlPath)
			}

			if c.cfg.History.Enabled && !noHistory {
				c.recordRun(history.Run{
					Models:    modelsPath,
					TestSet:   source,
					Policy:    policy.String(),
					NumModels: models.Len(),
					NumItems:  ts.NumItems(),
					Failures:  result.Failures,
					WER:       result.WER,
					Guesses:   result.Guesses,
					Words:     result.Words,
				})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelsPath, "models", "", "Model bundle file or directory (default: from config)")
	cmd.Flags().StringVar(&policyName, "policy", "", "Length mismatch policy: strict or pad (default: from config)")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Also write an HTML report to this file")
	cmd.Flags().BoolVar(&showScores, "scores", false, "Print the score of every item under every model")
	cmd.Flags().BoolVar(&showConfusion, "confusion", false, "Print the confusion matrix")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history database")
	return cmd
}

// loadTestSet resolves the test set from the argument, stdin or config.
// It returns the set and a description of where it came from.
func (c *CLI) loadTestSet(args []string) (*dataset.Singles, string, error) {
	if len(args) == 1 {
		ts, err := wordrec.LoadTestSet(args[0])
		return ts, args[0], err
	}
	if !isStdinTerminal() {
		return readTestSetFromStdin(os.Stdin)
	}
	if c.cfg.TestSet == "" {
		return nil, "", fmt.Errorf("no test set given")
	}
	ts, err := wordrec.LoadTestSet(c.cfg.TestSet)
	return ts, c.cfg.TestSet, err
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// readTestSetFromStdin accepts either a JSON test set or a path/URL.
func readTestSetFromStdin(r io.Reader) (*dataset.Singles, string, error) {
	slog.Debug("Reading from stdin")
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read stdin: %w", err)
	}
	content := strings.TrimSpace(string(body))
	if content == "" {
		return nil, "", fmt.Errorf("stdin is empty")
	}

	if strings.HasPrefix(content, "{") {
		ts, err := dataset.Parse([]byte(content))
		if err != nil {
			return nil, "", fmt.Errorf("parse stdin: %w", err)
		}
		return ts, "stdin", nil
	}

	slog.Debug("Stdin contains a test set location", "source", content)
	ts, err := wordrec.LoadTestSet(content)
	return ts, content, err
}

func writeHTMLReport(path string, s *report.Summary, source string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteHTML(f, s, "wordrec: "+source); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

// recordRun stores run in the history database. Failures are logged and
// do not fail the command.
func (c *CLI) recordRun(run history.Run) {
	store, err := history.Open(c.cfg.History.Path)
	if err != nil {
		slog.Warn("Cannot open history", "path", c.cfg.History.Path, "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	rec, err := store.Record(run)
	if err != nil {
		slog.Warn("Cannot record run", "error", err)
		return
	}
	slog.Info("Run recorded", "id", rec.ID)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
