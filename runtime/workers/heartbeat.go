package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker periodically logs the client's own resource usage.
// The store is embedded in-process, so a leaking poll loop shows up
// here long before it shows up as user-visible lag.
type HeartbeatWorker struct {
	log      *slog.Logger
	interval time.Duration
	stats    func() map[string]any
}

// NewHeartbeatWorker builds the worker. stats supplies extra runtime
// attributes merged into each heartbeat line; nil is allowed.
func NewHeartbeatWorker(log *slog.Logger, interval time.Duration, stats func() map[string]any) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, interval: interval, stats: stats}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			memInfo, err := p.MemoryInfo()
			if err != nil {
				w.log.Error("failed to collect self stats", "error", err)
				continue
			}
			cpuPercent, err := p.CPUPercent()
			if err != nil {
				w.log.Error("failed to collect self stats", "error", err)
				continue
			}
			attrs := []any{
				"rss_bytes", memInfo.RSS,
				"cpu_percent", cpuPercent,
			}
			if w.stats != nil {
				for key, value := range w.stats() {
					attrs = append(attrs, key, value)
				}
			}
			w.log.Debug("heartbeat", attrs...)
		}
	}
}
