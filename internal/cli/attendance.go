package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tariqai1/student-productivity-app/internal/timeline"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Start today's session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		res, err := app.client.CheckIn(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", res.Message, res.Time)
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "End today's session with a task summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		tasks, _ := cmd.Flags().GetString("tasks")
		doubts, _ := cmd.Flags().GetString("doubts")
		proofFile, _ := cmd.Flags().GetString("proof")

		proofURL := ""
		if proofFile != "" {
			data, err := os.ReadFile(proofFile)
			if err != nil {
				return fmt.Errorf("read proof file: %w", err)
			}
			proofURL, err = app.client.UploadProof(cmd.Context(), data, filepath.Base(proofFile))
			if err != nil {
				return err
			}
		}

		res, err := app.client.CheckOut(cmd.Context(), tasks, proofURL, doubts)
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

// statusCmd runs the dashboard derivation: today's status from the fetched
// history, plus the 7-day window.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's session status and the last 7 days",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		logs, err := app.client.MyHistory(cmd.Context())
		if err != nil {
			return err
		}

		now := time.Now()
		switch timeline.ResolveToday(logs, now) {
		case timeline.StatusInProgress:
			fmt.Println("Today: session in progress. Check out when you are done.")
		case timeline.StatusCompleted:
			fmt.Println("Today: session completed. Well done!")
		case timeline.StatusForgotCheckout:
			fmt.Println("Today: you forgot to check out. The session was closed automatically.")
		default:
			fmt.Println("Today: no session yet. Run 'tracker checkin' to start.")
		}

		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DAY\tDATE\tHOURS\tSTATUS")
		for _, day := range timeline.Week(logs, now) {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", day.Label, day.Date, day.Hours, day.Status)
		}
		return w.Flush()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show attendance history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		logs, err := app.client.MyHistory(cmd.Context())
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			fmt.Println("No attendance records yet.")
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(logs) > limit {
			logs = logs[:limit]
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tSTATUS\tHOURS\tTASKS\tREMARKS")
		for _, l := range logs {
			tasks := l.Tasks
			if len(tasks) > 40 {
				tasks = tasks[:37] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
				l.Date.Format("2006-01-02"), l.Status, l.DurationHours, tasks, l.Remarks)
		}
		return w.Flush()
	},
}

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Show productivity aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		perf, err := app.client.MyPerformance(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Today:\t%.2f hrs\t%s\n", perf.Today.Hours, perf.Today.Status)
		fmt.Fprintf(w, "This week:\t%.2f hrs\t%d days\n", perf.Week.Hours, perf.Week.DaysPresent)
		fmt.Fprintf(w, "This month:\t%.2f hrs\t%d days\n", perf.Month.Hours, perf.Month.DaysPresent)
		fmt.Fprintf(w, "All time:\t%.2f hrs\t%d days\n", perf.AllTime.TotalHours, perf.AllTime.TotalDays)
		return w.Flush()
	},
}

func init() {
	checkoutCmd.Flags().StringP("tasks", "t", "", "what you worked on today")
	checkoutCmd.Flags().StringP("doubts", "d", "", "open questions for your mentor")
	checkoutCmd.Flags().String("proof", "", "path to a proof-of-work file to upload")
	_ = checkoutCmd.MarkFlagRequired("tasks")

	historyCmd.Flags().IntP("limit", "n", 30, "max rows to show (0 for all)")

	rootCmd.AddCommand(checkinCmd, checkoutCmd, statusCmd, historyCmd, performanceCmd)
}
