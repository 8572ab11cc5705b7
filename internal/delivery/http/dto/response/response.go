package response

import (
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type CaseResponse struct {
	ID               string    `json:"id"`
	CustomerID       string    `json:"customer_id"`
	Location         string    `json:"location"`
	PackageName      string    `json:"package_name"`
	Region           string    `json:"region"`
	Status           string    `json:"status"`
	TeamLeaderID     *string   `json:"team_leader_id"`
	FinalPrice       int64     `json:"final_price"`
	CommissionAmount int64     `json:"commission_amount"`
	MasterRating     *int      `json:"master_rating,omitempty"`
	CustomerRating   *int      `json:"customer_rating,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func FromCase(c *domain.Case) CaseResponse {
	return CaseResponse{
		ID:               c.ID,
		CustomerID:       c.CustomerID,
		Location:         c.Location,
		PackageName:      c.PackageName,
		Region:           c.Region,
		Status:           string(c.Status),
		TeamLeaderID:     c.TeamLeaderID,
		FinalPrice:       c.FinalPrice,
		CommissionAmount: c.CommissionAmount,
		MasterRating:     c.MasterRating,
		CustomerRating:   c.CustomerRating,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func FromCases(cases []*domain.Case) []CaseResponse {
	out := make([]CaseResponse, len(cases))
	for i, c := range cases {
		out[i] = FromCase(c)
	}
	return out
}

type SettlementResponse struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"case_id"`
	RecipientID string    `json:"recipient_id"`
	PayerID     *string   `json:"payer_id,omitempty"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	AdminMemo   *string   `json:"admin_memo,omitempty"`
	IsPrePaid   bool      `json:"is_pre_paid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromSettlement(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		ID:          s.ID,
		CaseID:      s.CaseID,
		RecipientID: s.RecipientID,
		PayerID:     s.PayerID,
		Type:        string(s.Type),
		Amount:      s.Amount,
		Status:      string(s.Status),
		AdminMemo:   s.AdminMemo,
		IsPrePaid:   s.IsPrePaid,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func FromSettlements(rows []*domain.Settlement) []SettlementResponse {
	out := make([]SettlementResponse, len(rows))
	for i, s := range rows {
		out[i] = FromSettlement(s)
	}
	return out
}

type SettlementSummaryResponse struct {
	PendingPayouts     int64 `json:"pending_payouts"`
	PendingRemittances int64 `json:"pending_remittances"`
	Completed          int64 `json:"completed"`
	Paid               int64 `json:"paid"`
}

type PartnerResponse struct {
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Grade          string    `json:"grade"`
	Region         string    `json:"region"`
	MasterID       *string   `json:"master_id"`
	ApprovalStatus string    `json:"approval_status"`
	Availability   string    `json:"availability"`
	DepositBalance int64     `json:"deposit_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromPartner(p *domain.Partner) PartnerResponse {
	return PartnerResponse{
		UserID:         p.UserID,
		Name:           p.Name,
		Role:           string(p.Role),
		Grade:          string(p.Grade),
		Region:         p.Region,
		MasterID:       p.MasterID,
		ApprovalStatus: string(p.ApprovalStatus),
		Availability:   string(p.Availability),
		DepositBalance: p.DepositBalance,
		CreatedAt:      p.CreatedAt,
	}
}

func FromPartners(partners []*domain.Partner) []PartnerResponse {
	out := make([]PartnerResponse, len(partners))
	for i, p := range partners {
		out[i] = FromPartner(p)
	}
	return out
}

type DepositResponse struct {
	ID           string    `json:"id"`
	PartnerID    string    `json:"partner_id"`
	Kind         string    `json:"kind"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	SettlementID *string   `json:"settlement_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromDeposit(d *domain.DepositTransaction) DepositResponse {
	return DepositResponse{
		ID:           d.ID,
		PartnerID:    d.PartnerID,
		Kind:         string(d.Kind),
		Amount:       d.Amount,
		BalanceAfter: d.BalanceAfter,
		SettlementID: d.SettlementID,
		CreatedAt:    d.CreatedAt,
	}
}

func FromDeposits(rows []*domain.DepositTransaction) []DepositResponse {
	out := make([]DepositResponse, len(rows))
	for i, d := range rows {
		out[i] = FromDeposit(d)
	}
	return out
}
