package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultSettlementRepository struct {
	DB *gorm.DB
}

func NewDefaultSettlementRepository(db *gorm.DB) *DefaultSettlementRepository {
	return &DefaultSettlementRepository{DB: db}
}

func (r *DefaultSettlementRepository) CreateSettlements(ctx context.Context, settlements []*domain.Settlement) error {
	if len(settlements) == 0 {
		return nil
	}

	settlementModels := make([]*models.SettlementModel, len(settlements))
	for i, s := range settlements {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		if s.Status == "" {
			s.Status = domain.SettlementPending
		}
		settlementModels[i] = mappers.ToGORMSettlement(s)
	}

	err := conn(ctx, r.DB).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "case_id"}, {Name: "recipient_id"}, {Name: "type"}},
			DoNothing: true,
		}).
		Create(&settlementModels).Error
	return storeError(err)
}

func (r *DefaultSettlementRepository) GetSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	var model models.SettlementModel
	if err := conn(ctx, r.DB).First(&model, "id = ?", settlementID).Error; err != nil {
		return nil, storeError(err)
	}
	return mappers.ToDomainSettlement(&model), nil
}

func (r *DefaultSettlementRepository) ListSettlements(ctx context.Context, filter domain.SettlementFilter) ([]*domain.Settlement, error) {
	query := conn(ctx, r.DB).Model(&models.SettlementModel{})
	if filter.CaseID != "" {
		query = query.Where("case_id = ?", filter.CaseID)
	}
	if filter.RecipientID != "" {
		query = query.Where("recipient_id = ?", filter.RecipientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var settlementModels []models.SettlementModel
	if err := query.Order("created_at ASC").Order("type ASC").Find(&settlementModels).Error; err != nil {
		return nil, storeError(err)
	}

	settlements := make([]*domain.Settlement, len(settlementModels))
	for i := range settlementModels {
		settlements[i] = mappers.ToDomainSettlement(&settlementModels[i])
	}
	return settlements, nil
}

func (r *DefaultSettlementRepository) MarkSettlement(
	ctx context.Context,
	settlementID string,
	status domain.SettlementStatus,
	memo *string,
	prePaid bool,
) (*domain.Settlement, error) {
	cols := map[string]interface{}{"status": status}
	if memo != nil {
		cols["admin_memo"] = *memo
	}
	if prePaid {
		cols["is_pre_paid"] = true
	}
	return r.updatePending(ctx, settlementID, cols)
}

func (r *DefaultSettlementRepository) OverrideAmount(ctx context.Context, settlementID string, amount int64, memo string) (*domain.Settlement, error) {
	return r.updatePending(ctx, settlementID, map[string]interface{}{
		"amount":     amount,
		"admin_memo": memo,
	})
}

// updatePending writes cols only while the row is still pending.
func (r *DefaultSettlementRepository) updatePending(ctx context.Context, settlementID string, cols map[string]interface{}) (*domain.Settlement, error) {
	db := conn(ctx, r.DB)
	cols["updated_at"] = time.Now()

	res := db.Model(&models.SettlementModel{}).
		Where("id = ? AND status = ?", settlementID, domain.SettlementPending).
		Updates(cols)
	if res.Error != nil {
		return nil, storeError(res.Error)
	}

	current, err := r.GetSettlementByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return current, fmt.Errorf("%w: settlement %s is %s", domain.ErrAlreadyFinal, settlementID, current.Status)
	}
	return current, nil
}
