package service

import (
	"context"
	"errors"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/apierror"
	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the calling user as supplied by the auth collaborator: an opaque
// (id, role) pair. Services never touch credentials.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Supervisory reports whether the actor may act on tickets owned by others.
func (a Actor) Supervisory() bool {
	return a.Role == model.RoleAdmin || a.Role == model.RoleSupervisor
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// withTimeout bounds a store interaction. Zero or negative d disables the
// bound (unit test mode).
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// storeErr surfaces deadline expiry as a store_unavailable error and unique
// index violations as conflicts; anything else passes through untouched.
// The duplicate mapping is what keeps check-then-create races (part
// reference, machine serial, username, intervention ticket_id) from leaking
// as opaque 500s: the loser's INSERT trips the index and lands here.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apierror.StoreUnavailable(err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Conflict("a record with the same unique value already exists")
	}
	return err
}

// notFound maps a lookup failure to the taxonomy: missing row → not_found,
// timeout → store_unavailable.
func notFound(entity string, id any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(entity, id)
	}
	return storeErr(err)
}
