package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactor keeps the open *gorm.DB transaction in the context so that
// every repository call made with that context joins it.
type GormTransactor struct {
	DB *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{DB: db}
}

func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	var fnErr error
	called := false
	err := t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		called = true
		fnErr = fn(context.WithValue(ctx, txKey{}, tx))
		return fnErr
	})
	if err == nil {
		return nil
	}
	// begin or commit failed
	if !called || fnErr == nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}

// conn returns the transaction bound to ctx, or db itself.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	default:
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
}
