package repository

import (
	"context"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPartnerRepository struct {
	DB *gorm.DB
}

func NewDefaultPartnerRepository(db *gorm.DB) *DefaultPartnerRepository {
	return &DefaultPartnerRepository{DB: db}
}

func (r *DefaultPartnerRepository) CreatePartner(ctx context.Context, p *domain.Partner) error {
	if p.UserID == "" {
		p.UserID = uuid.New().String()
	}
	model := mappers.ToGORMPartner(p)
	if err := conn(ctx, r.DB).Create(model).Error; err != nil {
		return storeError(err)
	}
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultPartnerRepository) GetPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	var model models.PartnerModel
	if err := conn(ctx, r.DB).First(&model, "user_id = ?", partnerID).Error; err != nil {
		return nil, storeError(err)
	}
	return mappers.ToDomainPartner(&model), nil
}

func (r *DefaultPartnerRepository) LockPartner(ctx context.Context, partnerID string, exclusive bool) (*domain.Partner, error) {
	strength := clause.LockingStrengthShare
	if exclusive {
		strength = clause.LockingStrengthUpdate
	}
	var model models.PartnerModel
	if err := conn(ctx, r.DB).
		Clauses(clause.Locking{Strength: strength}).
		First(&model, "user_id = ?", partnerID).Error; err != nil {
		return nil, storeError(err)
	}
	return mappers.ToDomainPartner(&model), nil
}

func (r *DefaultPartnerRepository) ListPartners(ctx context.Context, filter domain.PartnerFilter) ([]*domain.Partner, error) {
	query := conn(ctx, r.DB).Model(&models.PartnerModel{})
	if filter.MasterID != "" {
		query = query.Where("master_id = ?", filter.MasterID)
	}
	if filter.Availability != "" {
		query = query.Where("availability = ?", filter.Availability)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}

	var partnerModels []models.PartnerModel
	if err := query.Order("created_at ASC").Find(&partnerModels).Error; err != nil {
		return nil, storeError(err)
	}

	partners := make([]*domain.Partner, len(partnerModels))
	for i := range partnerModels {
		partners[i] = mappers.ToDomainPartner(&partnerModels[i])
	}
	return partners, nil
}

func (r *DefaultPartnerRepository) UpdateAvailability(ctx context.Context, partnerID string, state domain.Availability) error {
	return r.update(ctx, partnerID, map[string]interface{}{"availability": state})
}

func (r *DefaultPartnerRepository) UpdateApproval(ctx context.Context, partnerID string, status domain.ApprovalStatus, masterID *string) error {
	cols := map[string]interface{}{"approval_status": status}
	if masterID != nil {
		cols["master_id"] = *masterID
	}
	return r.update(ctx, partnerID, cols)
}

func (r *DefaultPartnerRepository) UpdateGrade(ctx context.Context, partnerID string, grade domain.Grade) error {
	return r.update(ctx, partnerID, map[string]interface{}{"grade": grade})
}

func (r *DefaultPartnerRepository) AdjustDeposit(ctx context.Context, partnerID string, delta int64) (int64, error) {
	db := conn(ctx, r.DB)

	query := db.Model(&models.PartnerModel{}).Where("user_id = ?", partnerID)
	if delta < 0 {
		query = query.Where("deposit_balance + ? >= 0", delta)
	}
	res := query.Updates(map[string]interface{}{
		"deposit_balance": gorm.Expr("deposit_balance + ?", delta),
		"updated_at":      time.Now(),
	})
	if res.Error != nil {
		return 0, storeError(res.Error)
	}

	var model models.PartnerModel
	if err := db.Select("user_id", "deposit_balance").First(&model, "user_id = ?", partnerID).Error; err != nil {
		return 0, storeError(err)
	}
	if res.RowsAffected == 0 {
		return model.DepositBalance, domain.ErrInsufficientDeposit
	}
	return model.DepositBalance, nil
}

func (r *DefaultPartnerRepository) update(ctx context.Context, partnerID string, cols map[string]interface{}) error {
	cols["updated_at"] = time.Now()
	res := conn(ctx, r.DB).Model(&models.PartnerModel{}).Where("user_id = ?", partnerID).Updates(cols)
	if res.Error != nil {
		return storeError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
