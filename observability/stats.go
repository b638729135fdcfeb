// Package observability collects in-process telemetry for the
// heartbeat log line.
package observability

import (
	"runtime"
	"time"
)

// Collector samples the Go runtime. The heavier per-process numbers
// (RSS, CPU) come from the heartbeat worker itself via gopsutil; this
// covers what only the runtime can see.
type Collector struct {
	start time.Time
}

func NewCollector() *Collector {
	return &Collector{start: time.Now()}
}

func (c *Collector) Snapshot() map[string]any {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return map[string]any{
		"alloc_mem_mb": m.Alloc / 1024 / 1024,
		"num_gc":       m.NumGC,
		"goroutines":   runtime.NumGoroutine(),
		"uptime":       time.Since(c.start).Round(time.Second).String(),
	}
}
