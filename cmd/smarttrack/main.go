package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"smarttrack/internal/bootstrap"
	dashboarddto "smarttrack/internal/modules/dashboard/dto"
	gpadto "smarttrack/internal/modules/gpa/dto"
	trackerdto "smarttrack/internal/modules/tracker/dto"
	"smarttrack/internal/platform/config"
	apperrors "smarttrack/internal/platform/errors"
	uiapp "smarttrack/internal/ui/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	cfgFile string
}

// flagKeys binds persistent flags to their viper keys.
var flagKeys = map[string]string{
	"base-url":     "api.base_url",
	"log-level":    "log.level",
	"metrics-addr": "metrics.addr",
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "smarttrack",
		Short:         "Terminal dashboard for study time and social media usage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default ./smarttrack.yaml)")
	flags.String("base-url", "", "tracker backend base url")
	flags.String("log-level", "", "log level: debug|info|warn|error")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newRefreshCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	root.AddCommand(newGPACmd(opts))
	root.AddCommand(newAnalysisCmd(opts))
	root.AddCommand(newSessionsCmd(opts))
	root.AddCommand(newHealthCmd(opts))
	root.AddCommand(newJournalCmd(opts))
	return root
}

func loadApp(cmd *cobra.Command, opts *rootOptions, mode bootstrap.Mode) (*bootstrap.App, error) {
	v := viper.New()
	for name, key := range flagKeys {
		f := cmd.Root().PersistentFlags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	cfg, err := config.Load(v, opts.cfgFile)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, mode, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	var courseFile, cat, exam string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the full-screen dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeTUI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			ctx, stop := signalContext()
			defer stop()
			return bootstrap.RunTUI(ctx, app, uiapp.Options{CourseFile: courseFile, CatWeight: cat, ExamWeight: exam})
		},
	}
	cmd.Flags().StringVar(&courseFile, "courses", "", "YAML course file used by the g key (default: sample courses)")
	cmd.Flags().StringVar(&cat, "cat", "", "default CAT weight for the a key")
	cmd.Flags().StringVar(&exam, "exam", "", "default exam weight for the a key")
	return cmd
}

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run one refresh cycle and print every panel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			ctx, stop := signalContext()
			defer stop()
			return app.DashboardCLI.Refresh(ctx, dashboarddto.TriggerManual)
		},
	}
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh on the configured interval until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			ctx, stop := signalContext()
			defer stop()

			if err := app.DashboardCLI.Refresh(ctx, dashboarddto.TriggerStartup); err != nil {
				app.Logger.Warn("startup refresh failed", zap.Error(err))
			}
			if err := app.Scheduler.Start(ctx); err != nil {
				return err
			}
			return app.ServeMetrics(ctx)
		},
	}
}

func newGPACmd(opts *rootOptions) *cobra.Command {
	gpa := &cobra.Command{Use: "gpa", Short: "GPA calculation"}

	var specs []string
	var file string
	calc := &cobra.Command{
		Use:   "calc",
		Short: "Calculate a GPA from --course flags, a course file or the sample courses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			ctx, stop := signalContext()
			defer stop()

			courses, err := app.GPACLI.Courses(ctx, file, specs)
			if err != nil {
				return err
			}
			if err := app.DashboardCLI.CalculateGPA(ctx, courses); err != nil {
				return err
			}
			return app.Text.Flush()
		},
	}
	calc.Flags().StringArrayVar(&specs, "course", nil, "course as name:credits:grade (repeatable)")
	calc.Flags().StringVar(&file, "file", "", "YAML course file")
	gpa.AddCommand(calc, newCoursesCmd(opts))
	return gpa
}

func newCoursesCmd(opts *rootOptions) *cobra.Command {
	courses := &cobra.Command{Use: "courses", Short: "Courses saved on the backend"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved courses, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			saved, err := app.GPACLI.SavedCourses(cmd.Context())
			if err != nil {
				return err
			}
			if len(saved) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no saved courses")
				return nil
			}
			for _, c := range saved {
				printCourse(cmd, c)
			}
			return nil
		},
	}

	var input gpadto.AddCourseInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Save a course",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			saved, err := app.GPACLI.AddCourse(cmd.Context(), input)
			if err != nil {
				return err
			}
			printCourse(cmd, saved)
			return nil
		},
	}
	add.Flags().StringVar(&input.Name, "name", "", "course name")
	add.Flags().Float64Var(&input.Credits, "credits", 0, "credit hours")
	add.Flags().StringVar(&input.Grade, "grade", "", "letter grade, e.g. A-")
	add.Flags().StringVar(&input.Semester, "semester", "", "semester label")
	_ = add.MarkFlagRequired("credits")
	_ = add.MarkFlagRequired("grade")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.GPACLI.DeleteCourse(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted course %d\n", id)
			return nil
		},
	}

	courses.AddCommand(list, add, del)
	return courses
}

func printCourse(cmd *cobra.Command, c gpadto.SavedCourseOutput) {
	name := c.Name
	if name == "" {
		name = "-"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%s\n",
		c.ID, name, humanize.Ftoa(c.Credits), c.Grade, c.Semester, c.CreatedAt)
}

func newAnalysisCmd(opts *rootOptions) *cobra.Command {
	analysis := &cobra.Command{Use: "analysis", Short: "Study time versus GPA analysis"}

	var cat, exam, out string
	var asJSON bool
	run := &cobra.Command{
		Use:   "run",
		Short: "Run the analysis and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			ctx, stop := signalContext()
			defer stop()

			if asJSON {
				report, err := app.AnalysisCLI.Run(ctx, cat, exam)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			if err := app.DashboardCLI.RunAnalysis(ctx, cat, exam); err != nil {
				_ = app.Text.Flush()
				return err
			}
			if err := app.Text.Flush(); err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			exported, err := app.DashboardCLI.ExportAnalysis(ctx, out)
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("nothing to export: the backend returned an error")
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported %s\n", exported.Path)
			return nil
		},
	}
	run.Flags().StringVar(&cat, "cat", "", "CAT weight (default 0.4)")
	run.Flags().StringVar(&exam, "exam", "", "exam weight (default 0.6)")
	run.Flags().StringVar(&out, "out", "", "also write the report as markdown to this path")
	run.Flags().BoolVar(&asJSON, "json", false, "print the raw report as JSON")
	analysis.AddCommand(run)
	return analysis
}

func newSessionsCmd(opts *rootOptions) *cobra.Command {
	sessions := &cobra.Command{Use: "sessions", Short: "Tracked sessions"}

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "Print the most recent sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			rows, err := app.TrackerCLI.RecentSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printSessions(cmd, rows)
			return nil
		},
	}
	recent.Flags().IntVar(&limit, "limit", config.DefaultSessionLimit, "number of sessions (1-50)")

	today := &cobra.Command{
		Use:   "today",
		Short: "Print today's sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			rows, err := app.TrackerCLI.TodaySessions(cmd.Context())
			if err != nil {
				return err
			}
			printSessions(cmd, rows)
			return nil
		},
	}

	var (
		add        trackerdto.AddSessionInput
		start, end string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Log a session by hand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if add.Start, err = parseTimestamp(start); err != nil {
				return err
			}
			if add.End, err = parseTimestamp(end); err != nil {
				return err
			}
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			added, err := app.TrackerCLI.AddSession(cmd.Context(), add)
			if err != nil {
				return err
			}
			printSessions(cmd, []trackerdto.SessionOutput{added})
			return nil
		},
	}
	addCmd.Flags().StringVar(&add.Platform, "platform", "", "facebook, instagram, x or tiktok")
	addCmd.Flags().Float64Var(&add.Seconds, "seconds", 0, "time spent in seconds")
	addCmd.Flags().StringVar(&add.Date, "date", "", "YYYY-MM-DD (default: the backend's today)")
	addCmd.Flags().StringVar(&start, "start", "", "start time, RFC 3339 or \"YYYY-MM-DD HH:MM\" local")
	addCmd.Flags().StringVar(&end, "end", "", "end time, same formats as --start")
	for _, name := range []string{"platform", "seconds", "start", "end"} {
		_ = addCmd.MarkFlagRequired(name)
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.TrackerCLI.DeleteSession(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted session %d\n", id)
			return nil
		},
	}

	sessions.AddCommand(recent, today, addCmd, del)
	return sessions
}

var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04"}

// parseTimestamp reads RFC 3339, or a zone-less time in the local zone.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: timestamp %q", apperrors.ErrInvalidInput, raw)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", apperrors.ErrInvalidInput, raw)
	}
	return id, nil
}

func printSessions(cmd *cobra.Command, rows []trackerdto.SessionOutput) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
		return
	}
	for _, s := range rows {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Platform.Label(), humanize.Comma(int64(s.Seconds+0.5)), s.Date, s.StartTS, s.EndTS)
	}
}

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the tracker backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			h, err := app.TrackerCLI.Health(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ok: %t\ntimezone: %s\ntimestamp: %s\n", h.OK, h.Timezone, h.Timestamp)
			if !h.OK {
				return fmt.Errorf("backend reports not ok")
			}
			return nil
		},
	}
}

func newJournalCmd(opts *rootOptions) *cobra.Command {
	journal := &cobra.Command{Use: "journal", Short: "Local refresh journal"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent refresh cycles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, bootstrap.ModeCLI)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			cycles, err := app.DashboardCLI.Journal(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(cycles) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no refresh cycles recorded")
				return nil
			}
			for _, c := range cycles {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.StartedAt.Local().Format(time.DateTime),
					c.Trigger,
					c.Outcome,
					c.Duration.Round(time.Millisecond),
					strings.Join(c.FailedPanels, ","),
					c.ID,
				)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "number of cycles")
	journal.AddCommand(list)
	return journal
}
