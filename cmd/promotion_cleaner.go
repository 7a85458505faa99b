package main

import (
	"context"
	"log"
	"time"

	"bazarBack/internal/services"
)

const (
	promotionCleanerInterval = 5 * time.Minute
	promotionCleanerTimeout  = 30 * time.Second
)

func startPromotionCleaner(ctx context.Context, svc *services.PromotionService, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(promotionCleanerInterval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, promotionCleanerTimeout)
			defer cancel()

			expired, err := svc.ExpirePromotions(runCtx, time.Now())
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("promotion cleaner: failed to expire promotions: %v", err)
				}
				return
			}
			if expired > 0 && infoLog != nil {
				infoLog.Printf("promotion cleaner: expired %d promotions", expired)
			}
		}

		run()

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
