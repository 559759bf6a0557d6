package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lesdavils/MedimexResolv/internal/apierror"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStoreErrMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apierror.Kind
	}{
		{"deadline exceeded", context.DeadlineExceeded, apierror.KindStoreUnavailable},
		{"cancelled", context.Canceled, apierror.KindStoreUnavailable},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), apierror.KindStoreUnavailable},
		{"duplicated key", gorm.ErrDuplicatedKey, apierror.KindConflict},
		{"wrapped duplicated key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), apierror.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apierror.IsKind(storeErr(tt.err), tt.kind))
		})
	}
}

func TestStoreErrPassthrough(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, boom, storeErr(boom))

	// Taxonomy errors already carry their kind and must not be rewrapped.
	conflict := apierror.Conflict("already assigned")
	assert.Equal(t, conflict, storeErr(conflict))
}

func TestNotFoundMapping(t *testing.T) {
	err := notFound("part", "TF-10A", gorm.ErrRecordNotFound)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))

	err = notFound("part", "TF-10A", context.DeadlineExceeded)
	assert.True(t, apierror.IsKind(err, apierror.KindStoreUnavailable))
}
