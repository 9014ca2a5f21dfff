package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lukas-hzb/geometa/internal/config"
)

// Checker periodically inspects the run ledger and raises alerts.
type Checker struct {
	collector *Collector
	alerter   *Alerter
	cfg       config.MonitoringConfig

	// unscopedRun is the last run an unscoped_metas alert was raised for.
	unscopedRun string
}

// NewChecker creates a background alert checker.
func NewChecker(collector *Collector, alerter *Alerter, cfg config.MonitoringConfig) *Checker {
	return &Checker{
		collector: collector,
		alerter:   alerter,
		cfg:       cfg,
	}
}

// Run checks the ledger every interval until ctx is cancelled.
func (c *Checker) Run(ctx context.Context) {
	interval := time.Duration(c.cfg.CheckIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	log := zap.L().With(zap.String("component", "monitoring.checker"))
	log.Info("watching run ledger",
		zap.Duration("interval", interval),
		zap.Int("lookback_hours", c.cfg.LookbackWindowHours),
		zap.Float64("unscoped_threshold", c.cfg.UnscopedThreshold),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("alert checker stopped")
			return
		case <-ticker.C:
			c.Check(ctx, log)
		}
	}
}

// Check takes one ledger snapshot and sends the alerts it triggers. An
// unscoped_metas alert is sent once per annotation run, however many
// ticks see that run as the latest. Check returns the alerts it sent.
func (c *Checker) Check(ctx context.Context, log *zap.Logger) []Alert {
	snap, err := c.collector.Collect(ctx, c.cfg.LookbackWindowHours)
	if err != nil {
		log.Error("monitoring: failed to collect metrics", zap.Error(err))
		return nil
	}

	log.Info("monitoring: ledger snapshot",
		zap.Int("runs", snap.RunsTotal),
		zap.Int("failed", snap.RunsFailed),
		zap.String("latest_run_id", snap.LatestRunID),
		zap.Int("latest_metas", snap.LatestMetas),
		zap.Float64("unscoped_rate", snap.UnscopedRate),
	)

	var alerts []Alert
	for _, a := range c.alerter.Evaluate(snap) {
		if a.Type == AlertUnscopedMetas {
			if snap.LatestRunID == c.unscopedRun {
				log.Debug("monitoring: unscoped alert already sent", zap.String("run_id", snap.LatestRunID))
				continue
			}
			c.unscopedRun = snap.LatestRunID
		}
		log.Warn("monitoring: alert triggered",
			zap.String("type", string(a.Type)),
			zap.String("message", a.Message),
		)
		alerts = append(alerts, a)
	}
	if len(alerts) == 0 {
		return nil
	}

	sent := c.alerter.SendAlerts(ctx, alerts)
	log.Info("monitoring: alert check complete",
		zap.Int("alerts_triggered", len(alerts)),
		zap.Int("alerts_sent", sent),
	)
	return alerts
}
