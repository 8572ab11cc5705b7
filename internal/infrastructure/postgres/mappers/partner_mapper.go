package mappers

import (
	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/models"
)

func ToDomainPartner(model *models.PartnerModel) *domain.Partner {
	return &domain.Partner{
		UserID:         model.UserID,
		Name:           model.Name,
		Role:           model.Role,
		Grade:          model.Grade,
		Region:         model.Region,
		MasterID:       model.MasterID,
		ApprovalStatus: model.ApprovalStatus,
		Availability:   model.Availability,
		DepositBalance: model.DepositBalance,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ToGORMPartner(p *domain.Partner) *models.PartnerModel {
	return &models.PartnerModel{
		UserID:         p.UserID,
		Name:           p.Name,
		Role:           p.Role,
		Grade:          p.Grade,
		Region:         p.Region,
		MasterID:       p.MasterID,
		ApprovalStatus: p.ApprovalStatus,
		Availability:   p.Availability,
		DepositBalance: p.DepositBalance,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
