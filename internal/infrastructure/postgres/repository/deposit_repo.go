package repository

import (
	"context"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultDepositRepository struct {
	DB *gorm.DB
}

func NewDefaultDepositRepository(db *gorm.DB) *DefaultDepositRepository {
	return &DefaultDepositRepository{DB: db}
}

func (r *DefaultDepositRepository) CreateDepositTransaction(ctx context.Context, tx *domain.DepositTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	model := mappers.ToGORMDepositTransaction(tx)
	if err := conn(ctx, r.DB).Create(model).Error; err != nil {
		return storeError(err)
	}
	tx.CreatedAt = model.CreatedAt
	return nil
}

func (r *DefaultDepositRepository) ListDepositTransactions(ctx context.Context, partnerID string) ([]*domain.DepositTransaction, error) {
	var txModels []models.DepositTransactionModel
	if err := conn(ctx, r.DB).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&txModels).Error; err != nil {
		return nil, storeError(err)
	}

	txs := make([]*domain.DepositTransaction, len(txModels))
	for i := range txModels {
		txs[i] = mappers.ToDomainDepositTransaction(&txModels[i])
	}
	return txs, nil
}
