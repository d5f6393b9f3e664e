package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	analysisdto "smarttrack/internal/modules/analysis/dto"
	analysisin "smarttrack/internal/modules/analysis/port/in"
	"smarttrack/internal/modules/dashboard/domain"
	"smarttrack/internal/modules/dashboard/dto"
	dashboardin "smarttrack/internal/modules/dashboard/port/in"
	dashboardout "smarttrack/internal/modules/dashboard/port/out"
	"smarttrack/internal/modules/dashboard/service"
	gpadto "smarttrack/internal/modules/gpa/dto"
	gpain "smarttrack/internal/modules/gpa/port/in"
	trackerdomain "smarttrack/internal/modules/tracker/domain"
	trackerin "smarttrack/internal/modules/tracker/port/in"
	"smarttrack/internal/platform/clock"
	apperrors "smarttrack/internal/platform/errors"
	"smarttrack/internal/platform/id"
)

type Options struct {
	DailyTargetHours float64
	SessionLimit     int
	NotificationTTL  time.Duration
}

type Deps struct {
	Tracker  trackerin.Usecase
	GPA      gpain.Usecase
	Analysis analysisin.Usecase

	Sink     dashboardout.RenderSink
	Notifier dashboardout.Notifier
	Recorder dashboardout.CycleRecorder
	Journal  dashboardout.CycleJournal
	Reports  dashboardout.ReportWriter

	Clock  clock.Clock
	IDs    id.Generator
	Logger *zap.Logger
}

// Controller owns every dashboard panel. Refresh cycles never overlap.
type Controller struct {
	tracker  trackerin.Usecase
	gpa      gpain.Usecase
	analysis analysisin.Usecase

	renderer *service.PanelRenderer
	recorder dashboardout.CycleRecorder
	journal  dashboardout.CycleJournal
	reports  dashboardout.ReportWriter
	clock    clock.Clock
	ids      id.Generator
	log      *zap.Logger
	opts     Options

	inFlight atomic.Bool

	mu           sync.Mutex
	lastAnalysis *renderedAnalysis

	// analysisSeq numbers RunAnalysis calls; only the newest may publish.
	analysisSeq atomic.Uint64
	publishMu   sync.Mutex
}

type renderedAnalysis struct {
	doc        domain.Document
	catWeight  float64
	examWeight float64
	semesters  int
	renderedAt time.Time
}

type loader struct {
	panel string
	run   func(ctx context.Context) error
}

var _ dashboardin.Usecase = (*Controller)(nil)

func NewController(deps Deps, opts Options) *Controller {
	if deps.Clock == nil {
		deps.Clock = clock.SystemClock{}
	}
	if deps.IDs == nil {
		deps.IDs = id.UUID{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	opts.SessionLimit = trackerdomain.ClampSessionLimit(opts.SessionLimit)
	return &Controller{
		tracker:  deps.Tracker,
		gpa:      deps.GPA,
		analysis: deps.Analysis,
		renderer: service.NewPanelRenderer(deps.Sink, deps.Notifier, deps.Clock, deps.IDs, opts.NotificationTTL),
		recorder: deps.Recorder,
		journal:  deps.Journal,
		reports:  deps.Reports,
		clock:    deps.Clock,
		ids:      deps.IDs,
		log:      deps.Logger,
		opts:     opts,
	}
}

// RefreshAll runs every panel loader concurrently. A failing loader leaves
// its own panel untouched and never cancels its siblings. Any failure yields
// exactly one notification for the cycle.
func (c *Controller) RefreshAll(ctx context.Context, trigger dto.Trigger) error {
	cycle := domain.Cycle{ID: c.ids.New(), Trigger: string(trigger), StartedAt: c.clock.Now()}
	if !c.inFlight.CompareAndSwap(false, true) {
		cycle.Outcome = domain.OutcomeSkipped
		cycle.Error = apperrors.ErrRefreshInFlight.Error()
		c.record(ctx, cycle)
		return apperrors.ErrRefreshInFlight
	}
	defer c.inFlight.Store(false)

	loaders := []loader{
		{panel: "kpi", run: c.loadKPIs},
		{panel: "donut", run: c.loadDonuts},
		{panel: string(domain.PanelDonutTotal), run: c.loadTotals},
		{panel: string(domain.PanelLast7), run: c.loadLast7},
		{panel: string(domain.PanelSessions), run: c.loadSessions},
	}
	errs := make([]error, len(loaders))
	var g errgroup.Group
	for i, l := range loaders {
		i, l := i, l
		g.Go(func() error {
			if err := l.run(ctx); err != nil {
				errs[i] = fmt.Errorf("load %s: %w", l.panel, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			cycle.FailedPanels = append(cycle.FailedPanels, loaders[i].panel)
			c.log.Warn("panel refresh failed", zap.String("panel", loaders[i].panel), zap.Error(err))
		}
	}
	cycle.Duration = clock.Elapsed(c.clock, cycle.StartedAt)

	joined := errors.Join(errs...)
	if joined == nil {
		cycle.Outcome = domain.OutcomeOK
		c.record(ctx, cycle)
		return nil
	}
	cycle.Outcome = domain.OutcomeFailed
	cycle.Error = joined.Error()
	c.renderer.Notify(domain.MsgRefreshFailed)
	c.record(ctx, cycle)
	return fmt.Errorf("refresh dashboard: %w", joined)
}

func (c *Controller) loadKPIs(ctx context.Context) error {
	today, err := c.tracker.Today(ctx)
	if err != nil {
		return err
	}
	for _, p := range trackerdomain.Platforms {
		c.renderer.Counter(domain.KPIKey(p), domain.KPICounter(p, today.Totals[p]))
	}
	return nil
}

func (c *Controller) loadDonuts(ctx context.Context) error {
	avg, err := c.tracker.AverageHoursPerDay(ctx)
	if err != nil {
		return err
	}
	for _, p := range trackerdomain.Platforms {
		c.renderer.Donut(domain.DonutKey(p), domain.UsageDonut(p, avg[p], c.opts.DailyTargetHours))
	}
	return nil
}

func (c *Controller) loadTotals(ctx context.Context) error {
	all, err := c.tracker.TotalAll(ctx)
	if err != nil {
		return err
	}
	spec, breakdown := domain.AggregateTotals(all.TotalsSec)
	c.renderer.Donut(domain.PanelDonutTotal, spec)
	c.renderer.Document(domain.PanelTotalBreakdown, breakdown)
	return nil
}

func (c *Controller) loadLast7(ctx context.Context) error {
	points, err := c.tracker.Last7(ctx)
	if err != nil {
		return err
	}
	c.renderer.BarSeries(domain.PanelLast7, domain.AlignDailySeries(points))
	return nil
}

func (c *Controller) loadSessions(ctx context.Context) error {
	sessions, err := c.tracker.RecentSessions(ctx, c.opts.SessionLimit)
	if err != nil {
		return err
	}
	c.renderer.Table(domain.PanelSessions, domain.SessionTable(sessions))
	return nil
}

// SubmitGPACalculation renders the report table, summary and GPA counter.
// On a failed request nothing is rendered and one notification is raised;
// malformed input is returned to the caller as is.
func (c *Controller) SubmitGPACalculation(ctx context.Context, courses []gpadto.CourseInput) error {
	report, err := c.gpa.Calculate(ctx, gpadto.CalculateInput{Courses: courses})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return err
		}
		c.log.Warn("gpa calculation failed", zap.Error(err))
		c.renderer.Notify(domain.MsgGPAFailed)
		return fmt.Errorf("submit gpa calculation: %w", err)
	}
	c.renderer.Table(domain.PanelGPAReport, domain.GPATable(report))
	c.renderer.Document(domain.PanelGPASummary, domain.GPASummary(report))
	c.renderer.Counter(domain.PanelGPAKPI, domain.GPACounter(report))
	return nil
}

// RunAnalysis shows a placeholder, then the report. A status or
// server-reported failure replaces the report with the server's message and
// is not returned. Transport and decoding failures also raise a notification.
// When a newer call has started meanwhile, the result is discarded.
func (c *Controller) RunAnalysis(ctx context.Context, input analysisdto.RunInput) error {
	seq := c.analysisSeq.Add(1)
	c.renderer.Document(domain.PanelAnalysis, domain.AnalysisPlaceholder())

	report, err := c.analysis.Run(ctx, input)

	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	if seq != c.analysisSeq.Load() {
		c.log.Debug("discarding stale analysis result", zap.Uint64("seq", seq), zap.Error(err))
		return nil
	}
	switch {
	case err == nil:
		doc := domain.AnalysisDocument(report)
		c.renderer.Document(domain.PanelAnalysis, doc)
		c.storeAnalysis(&renderedAnalysis{
			doc:        doc,
			catWeight:  report.CatWeight,
			examWeight: report.ExamWeight,
			semesters:  len(report.Semesters),
			renderedAt: c.clock.Now(),
		})
		return nil
	case errors.Is(err, apperrors.ErrInvalidInput):
		c.storeAnalysis(nil)
		c.renderer.Document(domain.PanelAnalysis, domain.AnalysisError(err.Error()))
		return err
	case errors.Is(err, apperrors.ErrHTTPStatus), errors.Is(err, apperrors.ErrServerReported):
		c.storeAnalysis(nil)
		msg, _ := apperrors.ServerMessage(err)
		c.log.Info("analysis rejected", zap.String("message", msg), zap.Error(err))
		c.renderer.Document(domain.PanelAnalysis, domain.AnalysisError(msg))
		return nil
	default:
		c.storeAnalysis(nil)
		c.log.Warn("analysis failed", zap.Error(err))
		c.renderer.Document(domain.PanelAnalysis, domain.AnalysisError(""))
		c.renderer.Notify(domain.MsgAnalysisFailed)
		return fmt.Errorf("run analysis panel: %w", err)
	}
}

// ExportAnalysis writes the last successfully rendered analysis as markdown.
func (c *Controller) ExportAnalysis(ctx context.Context, path string) (dto.ExportOutput, error) {
	if path == "" {
		return dto.ExportOutput{}, fmt.Errorf("%w: export path is required", apperrors.ErrInvalidInput)
	}
	if c.reports == nil {
		return dto.ExportOutput{}, fmt.Errorf("export analysis: no report writer configured")
	}
	c.mu.Lock()
	last := c.lastAnalysis
	c.mu.Unlock()
	if last == nil {
		return dto.ExportOutput{}, fmt.Errorf("export analysis: %w", apperrors.ErrNotFound)
	}
	meta := map[string]any{
		"title":        last.doc.Title,
		"generated_at": last.renderedAt.Format(time.RFC3339),
		"cat_weight":   last.catWeight,
		"exam_weight":  last.examWeight,
		"semesters":    last.semesters,
	}
	if err := c.reports.WriteReport(ctx, path, meta, last.doc.Markdown()); err != nil {
		return dto.ExportOutput{}, fmt.Errorf("export analysis: %w", err)
	}
	return dto.ExportOutput{Path: path}, nil
}

func (c *Controller) RecentCycles(ctx context.Context, limit int) ([]dto.CycleOutput, error) {
	if c.journal == nil {
		return []dto.CycleOutput{}, nil
	}
	cycles, err := c.journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	out := make([]dto.CycleOutput, 0, len(cycles))
	for _, cy := range cycles {
		out = append(out, dto.CycleOutput{
			ID:           cy.ID,
			Trigger:      dto.Trigger(cy.Trigger),
			StartedAt:    cy.StartedAt,
			Duration:     cy.Duration,
			Outcome:      string(cy.Outcome),
			FailedPanels: cy.FailedPanels,
			Error:        cy.Error,
		})
	}
	return out, nil
}

// LiveCharts reports how many chart handles are currently drawn.
func (c *Controller) LiveCharts() int {
	return c.renderer.LiveCharts()
}

func (c *Controller) Close() {
	c.renderer.Close()
}

func (c *Controller) storeAnalysis(a *renderedAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAnalysis = a
}

func (c *Controller) record(ctx context.Context, cycle domain.Cycle) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordCycle(ctx, cycle); err != nil {
		c.log.Warn("record refresh cycle", zap.String("cycle", cycle.ID), zap.Error(err))
	}
}
