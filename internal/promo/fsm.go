package promo

import (
	"context"
	"database/sql"
	"errors"
)

// Status constants used by the promotion order state machine.
const (
	StatusPendingPayment = "pending_payment"
	StatusPendingReview  = "pending_review"
	StatusActive         = "active"
	StatusRejected       = "rejected"
	StatusExpired        = "expired"
)

var transitions = map[string]map[string]struct{}{
	StatusPendingPayment: {StatusPendingReview: {}},
	StatusPendingReview:  {StatusActive: {}, StatusRejected: {}},
	StatusActive:         {StatusExpired: {}},
	StatusRejected:       {},
	StatusExpired:        {},
}

// CanTransition returns whether a promotion can move from one status to another.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Terminal reports whether no further transition is possible from the status.
func Terminal(status string) bool {
	allowed, ok := transitions[status]
	return ok && len(allowed) == 0
}

// Apply updates a promotion status using optimistic validation: the row is
// only touched while it is still in the expected source status.
func Apply(ctx context.Context, tx *sql.Tx, promotionID int, fromStatus, toStatus string) error {
	if !CanTransition(fromStatus, toStatus) {
		return errors.New("invalid status transition")
	}
	res, err := tx.ExecContext(ctx, `UPDATE promotions SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`, toStatus, promotionID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
