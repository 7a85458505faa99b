package main

import (
	"context"
	"log"
	"time"

	"bazarBack/internal/services"
)

const (
	clickFlushInterval = 30 * time.Second
	clickFlushTimeout  = 10 * time.Second
)

func startClickFlusher(ctx context.Context, svc *services.ClickService, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(clickFlushInterval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, clickFlushTimeout)
			defer cancel()

			flushed, err := svc.Flush(runCtx)
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("click flusher: failed to flush counters: %v", err)
				}
				return
			}
			if flushed > 0 && infoLog != nil {
				infoLog.Printf("click flusher: flushed counters for %d promotions", flushed)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
