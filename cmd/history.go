package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <quiz-id>",
	Short: "Show your attempt history on a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		svc, closeFn, err := openService(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		res, err := svc.Results(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res.History)
		}

		h := res.History
		status := "not yet passed"
		if h.Passed {
			status = "passed"
		}
		fmt.Fprintf(out, "%s (%s) for %s\n", res.Quiz.Title, res.Quiz.ID, cfg.UserID)
		fmt.Fprintf(out, "Attempts: %d  Best: %d%%  Status: %s  Pass mark: %d%%\n\n",
			h.TotalAttempts, h.BestPercentage, status, res.Quiz.PassingScorePercent)
		if h.TotalAttempts == 0 {
			fmt.Fprintln(out, "No attempts yet.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SUBMITTED\tSCORE\tPERCENT\tRESULT\tREVISION")
		for _, a := range h.Attempts {
			result := "fail"
			if a.Passed {
				result = "pass"
			}
			fmt.Fprintf(tw, "%s\t%d/%d\t%d%%\t%s\t%s\n",
				a.SubmittedAt.Local().Format("2006-01-02 15:04"), a.Score, a.MaxScore, a.Percentage, result, a.Revision)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().Bool("json", false, "Print the history as JSON")
}
