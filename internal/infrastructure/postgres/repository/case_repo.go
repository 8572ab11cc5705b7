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
)

type DefaultCaseRepository struct {
	DB *gorm.DB
}

func NewDefaultCaseRepository(db *gorm.DB) *DefaultCaseRepository {
	return &DefaultCaseRepository{DB: db}
}

func (r *DefaultCaseRepository) CreateCase(ctx context.Context, c *domain.Case) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	caseModel := mappers.ToGORMCase(c)
	if err := conn(ctx, r.DB).Create(caseModel).Error; err != nil {
		return storeError(err)
	}
	c.CreatedAt = caseModel.CreatedAt
	c.UpdatedAt = caseModel.UpdatedAt
	return nil
}

func (r *DefaultCaseRepository) GetCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	var caseModel models.CaseModel
	if err := conn(ctx, r.DB).First(&caseModel, "id = ?", caseID).Error; err != nil {
		return nil, storeError(err)
	}
	return mappers.ToDomainCase(&caseModel), nil
}

func (r *DefaultCaseRepository) ListCases(ctx context.Context, filter domain.CaseFilter) ([]*domain.Case, error) {
	query := conn(ctx, r.DB).Model(&models.CaseModel{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.TeamLeaderID != "" {
		query = query.Where("team_leader_id = ?", filter.TeamLeaderID)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var caseModels []models.CaseModel
	if err := query.Order("created_at ASC").Find(&caseModels).Error; err != nil {
		return nil, storeError(err)
	}

	cases := make([]*domain.Case, len(caseModels))
	for i := range caseModels {
		cases[i] = mappers.ToDomainCase(&caseModels[i])
	}
	return cases, nil
}

func (r *DefaultCaseRepository) CountActiveByLeader(ctx context.Context, leaderID string) (int64, error) {
	var count int64
	if err := conn(ctx, r.DB).Model(&models.CaseModel{}).
		Where("team_leader_id = ? AND status IN ?", leaderID, domain.ActiveCaseStatuses()).
		Count(&count).Error; err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

// ConditionalTransition is a single compare-and-set UPDATE keyed on
// (id, status) and, when given, the expected claimant; the database
// serializes concurrent writers on the row.
func (r *DefaultCaseRepository) ConditionalTransition(
	ctx context.Context,
	caseID string,
	expected, next domain.CaseStatus,
	mutations domain.CaseMutations,
) (*domain.Case, error) {
	db := conn(ctx, r.DB)

	cols := mappers.CaseMutationColumns(next, mutations)
	cols["updated_at"] = time.Now()

	query := db.Model(&models.CaseModel{}).Where("id = ? AND status = ?", caseID, expected)
	if mutations.ExpectedLeaderID != nil {
		query = query.Where("team_leader_id = ?", *mutations.ExpectedLeaderID)
	}
	res := query.Updates(cols)
	if res.Error != nil {
		return nil, storeError(res.Error)
	}

	if res.RowsAffected == 0 {
		var probe models.CaseModel
		if err := db.Select("id", "status", "team_leader_id").First(&probe, "id = ?", caseID).Error; err != nil {
			return nil, storeError(err)
		}
		if probe.Status == expected && mutations.ExpectedLeaderID != nil {
			return nil, fmt.Errorf("%w: case %s changed hands, expected holder %q", domain.ErrConflict, caseID, *mutations.ExpectedLeaderID)
		}
		return nil, fmt.Errorf("%w: case %s is %s, expected %s", domain.ErrConflict, caseID, probe.Status, expected)
	}

	return r.GetCaseByID(ctx, caseID)
}
