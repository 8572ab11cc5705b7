package mappers

import (
	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/models"
)

func ToDomainSettlement(model *models.SettlementModel) *domain.Settlement {
	return &domain.Settlement{
		ID:          model.ID,
		CaseID:      model.CaseID,
		RecipientID: model.RecipientID,
		PayerID:     model.PayerID,
		Type:        model.Type,
		Amount:      model.Amount,
		Status:      model.Status,
		AdminMemo:   model.AdminMemo,
		IsPrePaid:   model.IsPrePaid,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func ToGORMSettlement(s *domain.Settlement) *models.SettlementModel {
	return &models.SettlementModel{
		ID:          s.ID,
		CaseID:      s.CaseID,
		RecipientID: s.RecipientID,
		PayerID:     s.PayerID,
		Type:        s.Type,
		Amount:      s.Amount,
		Status:      s.Status,
		AdminMemo:   s.AdminMemo,
		IsPrePaid:   s.IsPrePaid,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ToDomainDepositTransaction(model *models.DepositTransactionModel) *domain.DepositTransaction {
	return &domain.DepositTransaction{
		ID:           model.ID,
		PartnerID:    model.PartnerID,
		Kind:         model.Kind,
		Amount:       model.Amount,
		BalanceAfter: model.BalanceAfter,
		SettlementID: model.SettlementID,
		CreatedAt:    model.CreatedAt,
	}
}

func ToGORMDepositTransaction(tx *domain.DepositTransaction) *models.DepositTransactionModel {
	return &models.DepositTransactionModel{
		ID:           tx.ID,
		PartnerID:    tx.PartnerID,
		Kind:         tx.Kind,
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		SettlementID: tx.SettlementID,
		CreatedAt:    tx.CreatedAt,
	}
}
