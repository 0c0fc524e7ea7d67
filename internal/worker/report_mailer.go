package worker

import (
	"context"
	"log/slog"
	"time"

	market "github.com/woysa/marketd/internal"
	"github.com/woysa/marketd/internal/report"
	"github.com/woysa/marketd/internal/storage"
	"github.com/woysa/marketd/internal/telemetry"
)

const (
	reportChanSize = 32
	// Shipments are counted over a trailing month, matching what the
	// report presents as "shipments".
	shipmentWindow = 30 * 24 * time.Hour
)

// ReportMailer collects seller statistics and emails them on demand and,
// optionally, on a fixed schedule. Requests are dropped if the channel
// is full (back-pressure on a slow sender).
type ReportMailer struct {
	ch       chan string
	stats    storage.StatsStore
	sender   report.Sender
	interval time.Duration
	// recipient receives scheduled reports; on-demand requests carry
	// their own.
	recipient string
	metrics   *telemetry.Metrics
}

// NewReportMailer creates a ReportMailer. interval <= 0 disables the
// schedule; metrics may be nil.
func NewReportMailer(stats storage.StatsStore, sender report.Sender, recipient string, interval time.Duration, metrics *telemetry.Metrics) *ReportMailer {
	return &ReportMailer{
		ch:        make(chan string, reportChanSize),
		stats:     stats,
		sender:    sender,
		interval:  interval,
		recipient: recipient,
		metrics:   metrics,
	}
}

// Name returns the worker identifier.
func (w *ReportMailer) Name() string { return "report_mailer" }

// Request enqueues a report for the given recipient. It never blocks;
// drops on full channel.
func (w *ReportMailer) Request(recipient string) {
	select {
	case w.ch <- recipient:
		w.gaugeQueue()
	default:
		slog.Warn("report request dropped, channel full")
	}
}

// Run serves report requests until ctx is cancelled. Send failures are
// logged, never fatal.
func (w *ReportMailer) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case recipient := <-w.ch:
			w.gaugeQueue()
			w.send(ctx, recipient)

		case <-tick:
			w.send(ctx, w.recipient)

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *ReportMailer) send(ctx context.Context, recipient string) {
	if recipient == "" {
		slog.Warn("report skipped, no recipient configured")
		return
	}

	rows, err := w.stats.SellerStats(ctx, time.Now().Add(-shipmentWindow))
	if err != nil {
		w.fail(ctx, recipient, "collect seller stats", err)
		return
	}

	msg, err := report.Build(recipient, market.BuildReport(rows, time.Now()))
	if err != nil {
		w.fail(ctx, recipient, "render report", err)
		return
	}

	if err := w.sender.Send(ctx, msg); err != nil {
		w.fail(ctx, recipient, "send report", err)
		return
	}

	if w.metrics != nil {
		w.metrics.ReportsSent.Inc()
	}
	slog.LogAttrs(ctx, slog.LevelInfo, "report sent",
		slog.String("recipient", recipient),
		slog.Int("sellers", len(rows)),
	)
}

func (w *ReportMailer) fail(ctx context.Context, recipient, stage string, err error) {
	if w.metrics != nil {
		w.metrics.ReportsFailed.Inc()
	}
	slog.LogAttrs(ctx, slog.LevelError, "report failed",
		slog.String("stage", stage),
		slog.String("recipient", recipient),
		slog.String("error", err.Error()),
	)
}

func (w *ReportMailer) gaugeQueue() {
	if w.metrics != nil {
		w.metrics.ReportQueueLength.Set(float64(len(w.ch)))
	}
}
