package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/daylog"
)

// Reconfigure a running logger while a producer writes constantly
func main() {
	var written, rejected atomic.Int64

	logger := daylog.NewLogger()
	if err := logger.ApplyConfig(daylog.DefaultConfig()); err != nil {
		fmt.Printf("Initial config error: %v\n", err)
		return
	}
	if err := logger.Start(); err != nil {
		fmt.Printf("Start error: %v\n", err)
		return
	}

	stop := make(chan struct{})
	go func() {
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if logger.Write("info", fmt.Sprintf("Test log %d", i), nil) {
				written.Add(1)
			} else {
				rejected.Add(1)
			}
			time.Sleep(time.Millisecond)
		}
	}()

	// Each ApplyConfig stops the engine, drains, and restarts it with the new settings
	for i := 0; i < 10; i++ {
		cfg := logger.GetConfig()
		if err := daylog.ApplyOverrides(cfg,
			fmt.Sprintf("auto_flush_count=%d", 100*(i+1)),
			fmt.Sprintf("poll_interval_ms=%d", 10*(i+1)),
		); err != nil {
			fmt.Printf("Override error: %v\n", err)
			continue
		}
		if err := logger.ApplyConfig(cfg); err != nil {
			fmt.Printf("Reconfig error: %v\n", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	close(stop)

	if err := logger.Shutdown(time.Second); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}

	stats := logger.Stats()
	fmt.Printf("Queued: %d, rejected: %d, written: %d, dropped: %d\n",
		written.Load(), rejected.Load(), stats.Processed, stats.Dropped)
}
