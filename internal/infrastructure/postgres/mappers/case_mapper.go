package mappers

import (
	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/models"
)

func ToDomainCase(model *models.CaseModel) *domain.Case {
	return &domain.Case{
		ID:               model.ID,
		CustomerID:       model.CustomerID,
		Location:         model.Location,
		PackageName:      model.PackageName,
		Region:           model.Region,
		Status:           model.Status,
		TeamLeaderID:     model.TeamLeaderID,
		FinalPrice:       model.FinalPrice,
		CommissionAmount: model.CommissionAmount,
		MasterRating:     model.MasterRating,
		CustomerRating:   model.CustomerRating,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMCase(c *domain.Case) *models.CaseModel {
	return &models.CaseModel{
		ID:               c.ID,
		CustomerID:       c.CustomerID,
		Location:         c.Location,
		PackageName:      c.PackageName,
		Region:           c.Region,
		Status:           c.Status,
		TeamLeaderID:     c.TeamLeaderID,
		FinalPrice:       c.FinalPrice,
		CommissionAmount: c.CommissionAmount,
		MasterRating:     c.MasterRating,
		CustomerRating:   c.CustomerRating,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// CaseMutationColumns turns mutations into an Updates map. team_leader_id is
// written as NULL when cleared.
func CaseMutationColumns(next domain.CaseStatus, m domain.CaseMutations) map[string]interface{} {
	cols := map[string]interface{}{"status": next}
	if m.ClearTeamLeader {
		cols["team_leader_id"] = nil
	} else if m.TeamLeaderID != nil {
		cols["team_leader_id"] = *m.TeamLeaderID
	}
	if m.PackageName != nil {
		cols["package_name"] = *m.PackageName
	}
	if m.FinalPrice != nil {
		cols["final_price"] = *m.FinalPrice
	}
	if m.CommissionAmount != nil {
		cols["commission_amount"] = *m.CommissionAmount
	}
	if m.MasterRating != nil {
		cols["master_rating"] = *m.MasterRating
	}
	if m.CustomerRating != nil {
		cols["customer_rating"] = *m.CustomerRating
	}
	return cols
}
