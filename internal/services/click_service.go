package services

import (
	"context"
	"log"

	"bazarBack/internal/repositories"
)

// ClickService implements fire-and-forget click tracking: increments land in
// Redis and a background flusher moves them to the promotions table. Errors
// are logged and swallowed so tracking never blocks the caller.
type ClickService struct {
	Clicks    *repositories.ClickRepository
	PromoRepo *repositories.PromotionRepository
	ErrorLog  *log.Logger
}

func (s *ClickService) TrackClick(ctx context.Context, promotionID int) {
	if s == nil || s.Clicks == nil {
		return
	}
	if err := s.Clicks.IncrementClick(ctx, promotionID); err != nil && s.ErrorLog != nil {
		s.ErrorLog.Printf("click tracking: failed to increment promotion %d: %v", promotionID, err)
	}
}

// Flush drains the buffered counters into MySQL. Counts for promotions that
// no longer exist are dropped.
func (s *ClickService) Flush(ctx context.Context) (int, error) {
	if s == nil || s.Clicks == nil || s.PromoRepo == nil {
		return 0, nil
	}
	drained, err := s.Clicks.DrainClicks(ctx)
	if err != nil {
		return 0, err
	}
	flushed := 0
	for id, count := range drained {
		if err := s.PromoRepo.AddClicks(ctx, id, count); err != nil {
			if s.ErrorLog != nil {
				s.ErrorLog.Printf("click tracking: failed to flush %d clicks for promotion %d: %v", count, id, err)
			}
			continue
		}
		flushed++
	}
	return flushed, nil
}
