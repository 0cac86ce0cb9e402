package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Roster and report commands (admin role required)",
}

var adminStudentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List the student roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		students, err := app.client.Students(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tCOURSE\tACTIVE")
		for _, s := range students {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", s.ID, s.Username, s.FullName, s.Course, s.IsActive)
		}
		return w.Flush()
	},
}

var adminReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the daily attendance report",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}

		rows, err := app.client.DailyReport(cmd.Context(), date)
		if err != nil {
			return err
		}

		fmt.Println("Report for", date)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTATUS\tIN\tOUT\tDURATION\tREMARKS")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Name, r.Status, r.CheckIn, r.CheckOut, r.Duration, r.Remarks)
		}
		return w.Flush()
	},
}

var adminHistoryCmd = &cobra.Command{
	Use:   "history <student-id>",
	Short: "Show one student's attendance history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		logs, err := app.client.StudentHistory(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tSTATUS\tHOURS\tREMARKS")
		for _, l := range logs {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", l.Date.Format("2006-01-02"), l.Status, l.DurationHours, l.Remarks)
		}
		return w.Flush()
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats <student-id>",
	Short: "Show one student's productivity aggregates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		perf, err := app.client.StudentStats(cmd.Context(), args[0])
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

var adminRemarkCmd = &cobra.Command{
	Use:   "remark",
	Short: "Annotate a student's day",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		studentID, _ := cmd.Flags().GetString("student")
		date, _ := cmd.Flags().GetString("date")
		remark, _ := cmd.Flags().GetString("remark")
		if err := app.client.AdminRemark(cmd.Context(), studentID, date, remark); err != nil {
			return err
		}
		fmt.Println("Remark saved.")
		return nil
	},
}

var adminExportCmd = &cobra.Command{
	Use:   "export <daily|weekly>",
	Short: "Download a CSV report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		if err := app.requireAuth(); err != nil {
			return err
		}

		date, _ := cmd.Flags().GetString("date")
		out, _ := cmd.Flags().GetString("out")

		var data []byte
		switch args[0] {
		case "daily":
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			data, err = app.client.DownloadDailyReport(cmd.Context(), date)
		case "weekly":
			data, err = app.client.DownloadWeeklyReport(cmd.Context(), date)
		default:
			return fmt.Errorf("unknown report type %q, use daily or weekly", args[0])
		}
		if err != nil {
			return err
		}

		if out == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Println("Saved", out)
		return nil
	},
}

func init() {
	adminReportCmd.Flags().String("date", "", "report date (YYYY-MM-DD), default today")

	adminRemarkCmd.Flags().String("student", "", "student id")
	adminRemarkCmd.Flags().String("date", "", "date (YYYY-MM-DD)")
	adminRemarkCmd.Flags().String("remark", "", "remark text")
	_ = adminRemarkCmd.MarkFlagRequired("student")
	_ = adminRemarkCmd.MarkFlagRequired("date")
	_ = adminRemarkCmd.MarkFlagRequired("remark")

	adminExportCmd.Flags().String("date", "", "report date (YYYY-MM-DD)")
	adminExportCmd.Flags().StringP("out", "o", "", "write CSV to a file instead of stdout")

	adminCmd.AddCommand(adminStudentsCmd, adminReportCmd, adminHistoryCmd, adminStatsCmd, adminRemarkCmd, adminExportCmd)
	rootCmd.AddCommand(adminCmd)
}
