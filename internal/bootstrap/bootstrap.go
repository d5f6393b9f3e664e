package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	analysisinadapter "smarttrack/internal/modules/analysis/adapter/in"
	analysisoutadapter "smarttrack/internal/modules/analysis/adapter/out"
	analysisservice "smarttrack/internal/modules/analysis/service"
	analysisusecase "smarttrack/internal/modules/analysis/usecase"
	dashboardinadapter "smarttrack/internal/modules/dashboard/adapter/in"
	dashboardoutadapter "smarttrack/internal/modules/dashboard/adapter/out"
	dashboardin "smarttrack/internal/modules/dashboard/port/in"
	dashboardout "smarttrack/internal/modules/dashboard/port/out"
	dashboardusecase "smarttrack/internal/modules/dashboard/usecase"
	gpainadapter "smarttrack/internal/modules/gpa/adapter/in"
	gpaoutadapter "smarttrack/internal/modules/gpa/adapter/out"
	gpaservice "smarttrack/internal/modules/gpa/service"
	gpausecase "smarttrack/internal/modules/gpa/usecase"
	trackerinadapter "smarttrack/internal/modules/tracker/adapter/in"
	trackeroutadapter "smarttrack/internal/modules/tracker/adapter/out"
	trackerservice "smarttrack/internal/modules/tracker/service"
	trackerusecase "smarttrack/internal/modules/tracker/usecase"
	"smarttrack/internal/platform/apiclient"
	"smarttrack/internal/platform/clock"
	"smarttrack/internal/platform/config"
	"smarttrack/internal/platform/id"
	"smarttrack/internal/platform/logging"
	"smarttrack/internal/platform/metrics"
	uiapp "smarttrack/internal/ui/app"
	"smarttrack/internal/ui/sink"
)

// Mode selects where panels are drawn and where logs go.
type Mode int

const (
	// ModeTUI renders into the Bubble Tea program and logs to log.file.
	ModeTUI Mode = iota
	// ModeCLI renders plain text to stdout and logs to stderr.
	ModeCLI
)

type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	TrackerCLI   trackerinadapter.CLIHandler
	GPACLI       gpainadapter.CLIHandler
	AnalysisCLI  analysisinadapter.CLIHandler
	DashboardCLI dashboardinadapter.CLIHandler
	Scheduler    *dashboardinadapter.Scheduler

	// Text is the plain-text sink; nil in ModeTUI.
	Text *dashboardoutadapter.TextSink

	dashboard  dashboardin.Usecase
	controller *dashboardusecase.Controller
	teaSink    *sink.Tea
	journal    *dashboardoutadapter.SQLiteJournal
}

func New(cfg config.Config, mode Mode, out, errOut io.Writer) (*App, error) {
	logPath := cfg.Log.File
	if mode == ModeCLI {
		logPath = ""
	}
	logger, err := logging.New(cfg.Log.Level, logPath)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	m := metrics.New()

	api, err := apiclient.New(apiclient.Options{
		BaseURL:    cfg.API.BaseURL,
		Prefix:     cfg.API.Prefix,
		Timeout:    cfg.API.Timeout,
		CSRFCookie: cfg.API.CSRFCookie,
		CSRFToken:  cfg.API.CSRFToken,
		Breaker: apiclient.NewBreaker("smarttrack-api",
			cfg.Breaker.MaxRequests,
			cfg.Breaker.MinRequests,
			cfg.Breaker.Interval,
			cfg.Breaker.Timeout,
			cfg.Breaker.FailureRatio,
			logger,
		),
		Observer: m,
		Logger:   logger.Named("api"),
	})
	if err != nil {
		logger.Error("build api client", zap.String("base_url", cfg.API.BaseURL), zap.Error(err))
		_ = logger.Sync()
		return nil, fmt.Errorf("new api client: %w", err)
	}

	trackerUC := trackerusecase.NewInteractor(trackerservice.NewTrackerService(
		trackeroutadapter.NewHTTPGateway(api),
		trackeroutadapter.NewHTTPSessionWriter(api),
	))
	gpaUC := gpausecase.NewInteractor(gpaservice.NewGPAService(
		gpaoutadapter.NewHTTPCalculator(api),
		gpaoutadapter.NewYAMLCourseFile(),
		gpaoutadapter.NewHTTPCourseStore(api),
	))
	analysisUC := analysisusecase.NewInteractor(analysisservice.NewAnalysisService(
		analysisoutadapter.NewHTTPRunner(api),
		analysisoutadapter.NewStrictSanitizer(),
	))

	journal, err := dashboardoutadapter.NewSQLiteJournal(cfg.JournalPath)
	if err != nil {
		logger.Error("open refresh journal", zap.String("path", cfg.JournalPath), zap.Error(err))
		_ = logger.Sync()
		return nil, fmt.Errorf("new refresh journal: %w", err)
	}

	app := &App{
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		TrackerCLI:  trackerinadapter.NewCLIHandler(trackerUC),
		GPACLI:      gpainadapter.NewCLIHandler(gpaUC),
		AnalysisCLI: analysisinadapter.NewCLIHandler(analysisUC),
		journal:     journal,
	}

	var (
		renderSink dashboardout.RenderSink
		notifier   dashboardout.Notifier
		recorders  = dashboardoutadapter.MultiRecorder{journal, dashboardoutadapter.NewMetricsRecorder(m)}
	)
	switch mode {
	case ModeCLI:
		app.Text = dashboardoutadapter.NewTextSink(out, errOut)
		renderSink, notifier = app.Text, app.Text
		recorders = append(recorders, app.Text)
	default:
		app.teaSink = sink.New()
		renderSink, notifier = app.teaSink, app.teaSink
	}

	app.controller = dashboardusecase.NewController(dashboardusecase.Deps{
		Tracker:  trackerUC,
		GPA:      gpaUC,
		Analysis: analysisUC,
		Sink:     renderSink,
		Notifier: dashboardoutadapter.NewCountingNotifier(notifier, m),
		Recorder: recorders,
		Journal:  journal,
		Reports:  dashboardoutadapter.NewMarkdownReportWriter(),
		Clock:    clock.SystemClock{},
		IDs:      id.UUID{},
		Logger:   logger.Named("dashboard"),
	}, dashboardusecase.Options{
		DailyTargetHours: cfg.Dashboard.DailyTargetHours,
		SessionLimit:     cfg.Dashboard.SessionLimit,
		NotificationTTL:  cfg.Dashboard.NotificationTTL,
	})
	app.dashboard = app.controller
	app.DashboardCLI = dashboardinadapter.NewCLIHandler(app.controller)
	app.Scheduler = dashboardinadapter.NewScheduler(app.controller, cfg.Dashboard.RefreshInterval, logger.Named("scheduler"))
	return app, nil
}

// ServeMetrics exposes /metrics until ctx is done. It is a no-op without a
// configured address.
func (a *App) ServeMetrics(ctx context.Context) error {
	if a.Config.MetricsAddr == "" {
		<-ctx.Done()
		return nil
	}
	return a.Metrics.Serve(ctx, a.Config.MetricsAddr, a.Logger)
}

// Close stops the scheduler, disposes live charts and closes the journal.
func (a *App) Close() error {
	a.Scheduler.Stop()
	a.controller.Close()
	err := a.journal.Close()
	_ = a.Logger.Sync()
	return err
}

// RunTUI runs the dashboard until the user quits. The startup refresh comes
// from the model; later cycles come from the scheduler.
func RunTUI(ctx context.Context, app *App, opts uiapp.Options) error {
	if app.teaSink == nil {
		return errors.New("run tui: app was built without the terminal sink")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	model := uiapp.NewModel(gctx, app.dashboard, app.GPACLI, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
	app.teaSink.Attach(program)

	if err := app.Scheduler.Start(gctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	g.Go(func() error {
		return app.ServeMetrics(gctx)
	})
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			return nil
		}
		return err
	})
	return g.Wait()
}
