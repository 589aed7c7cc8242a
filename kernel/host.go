package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/xraph/simflow"
	"github.com/xraph/simflow/compose"
	mw "github.com/xraph/simflow/middleware"
	"github.com/xraph/simflow/queue"
	"github.com/xraph/simflow/run"
)

// Host executes simulation runs. It owns the component assembler and the
// per-event middleware chain. A Host runs one run at a time; Run may be
// called repeatedly for successive runs.
type Host struct {
	sim       *simflow.Simulator
	assembler *compose.Assembler
	logger    *slog.Logger
	chain     mw.Middleware
	userMws   []mw.Middleware

	// OpenTelemetry providers (optional; nil means use global).
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Host.
type Option func(*Host)

// WithComponent registers a behavior component with the host.
func WithComponent(c compose.Component) Option {
	return func(h *Host) {
		h.assembler.Add(c)
	}
}

// WithMiddleware appends middleware to the per-event chain, after the
// default stack.
func WithMiddleware(m mw.Middleware) Option {
	return func(h *Host) {
		h.userMws = append(h.userMws, m)
	}
}

// WithTracerProvider sets a custom OTel TracerProvider for the host.
// When set, the tracing middleware uses this provider instead of the
// global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Host) {
		h.tracerProvider = tp
	}
}

// WithMeterProvider sets a custom OTel MeterProvider for the host.
// When set, the metrics middleware uses this provider instead of the
// global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(h *Host) {
		h.meterProvider = mp
	}
}

// New creates a Host from a Simulator. At least one component must be
// registered.
func New(sim *simflow.Simulator, opts ...Option) (*Host, error) {
	logger := sim.Logger()

	h := &Host{
		sim:       sim,
		assembler: compose.NewAssembler(logger),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	if len(h.assembler.Components()) == 0 {
		return nil, simflow.ErrNoComponents
	}

	// Build tracing middleware (custom provider or global).
	var tracingMw mw.Middleware
	if h.tracerProvider != nil {
		tracer := h.tracerProvider.Tracer("github.com/xraph/simflow")
		tracingMw = mw.TracingWithTracer(tracer)
	} else {
		tracingMw = mw.Tracing()
	}

	// Build metrics middleware (custom provider or global).
	var metricsMw mw.Middleware
	if h.meterProvider != nil {
		meter := h.meterProvider.Meter("github.com/xraph/simflow")
		metricsMw = mw.MetricsWithMeter(meter)
	} else {
		metricsMw = mw.Metrics()
	}

	// Default per-event stack: recover → tracing → metrics → logging → timeout.
	cfg := sim.Config()
	mws := []mw.Middleware{
		mw.Recover(logger),
		tracingMw,
		metricsMw,
		mw.Logging(logger),
		mw.Timeout(cfg.EventTimeout),
	}
	mws = append(mws, h.userMws...)
	h.chain = mw.Chain(mws...)

	return h, nil
}

// Assembler returns the host's component assembler.
func (h *Host) Assembler() *compose.Assembler { return h.assembler }

// Result carries the outcome of one run.
type Result struct {
	// Run is the completed (or aborted) run entity.
	Run *run.Run

	// Record is the merged run record, or nil if no component
	// produced one.
	Record run.Record
}

// Run executes one simulation run: the coordinating context is assembled
// first, then the worker contexts transport events in parallel until the
// event source drains. Configuration conflicts surfaced by the composite
// dispatchers abort the run; the returned error preserves the sentinel
// for errors.Is checks.
func (h *Host) Run(ctx context.Context) (*Result, error) {
	cfg := h.sim.Config()
	r := run.New(h.sim.NextRunSeq(), cfg.Workers, cfg.EventsPerRun)

	h.logger.Info("run starting",
		slog.String("run_id", r.ID.String()),
		slog.Int("run_seq", r.Seq),
		slog.Int("workers", cfg.Workers),
		slog.Int("events", cfg.EventsPerRun),
	)

	// Phase one: assemble the coordinating context. This completes
	// before any worker context is assembled.
	master := &slots{}
	h.assembler.BuildForMaster(master)

	var masterRecord run.Record
	if master.run != nil {
		rec, err := master.run.GenerateRun(ctx)
		if err != nil {
			// The run never began; abort without boundary notifications.
			return h.abort(ctx, r, &slots{}, fmt.Errorf("generate master run record: %w", err))
		}
		masterRecord = rec
		master.run.OnRunBegin(ctx, r)
	}

	// Phase two: worker contexts.
	src := queue.NewSource(r.ID, cfg.EventsPerRun, cfg.PrimariesPerEvent,
		queue.WithRate(cfg.EventRate, cfg.EventBurst))

	var (
		recordMu      sync.Mutex
		workerRecords []run.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := 1; i <= cfg.Workers; i++ {
		w := newWorkerContext(i, h, src, cfg.StepsPerTrack)
		g.Go(func() error {
			rec, err := w.work(gctx, r)
			if rec != nil {
				recordMu.Lock()
				workerRecords = append(workerRecords, rec)
				recordMu.Unlock()
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return h.abort(ctx, r, master, err)
	}

	// Fold worker records into the master record.
	merged := masterRecord
	for _, rec := range workerRecords {
		if merged == nil {
			merged = rec
			continue
		}
		merged.Merge(rec)
	}

	now := time.Now().UTC()
	r.State = run.StateCompleted
	r.CompletedAt = &now

	if master.run != nil {
		master.run.OnRunEnd(ctx, r)
	}

	h.logger.Info("run completed",
		slog.String("run_id", r.ID.String()),
		slog.Int("run_seq", r.Seq),
		slog.Duration("elapsed", now.Sub(r.StartedAt)),
	)

	return &Result{Run: r, Record: merged}, nil
}

// abort marks the run aborted, notifies the coordinating context, and
// returns the causing error unchanged so sentinel checks keep working.
func (h *Host) abort(ctx context.Context, r *run.Run, master *slots, err error) (*Result, error) {
	now := time.Now().UTC()
	r.State = run.StateAborted
	r.Error = err.Error()
	r.CompletedAt = &now

	if master.run != nil {
		master.run.OnRunEnd(ctx, r)
	}

	h.logger.Error("run aborted",
		slog.String("run_id", r.ID.String()),
		slog.Int("run_seq", r.Seq),
		slog.String("error", err.Error()),
	)

	return &Result{Run: r}, err
}
