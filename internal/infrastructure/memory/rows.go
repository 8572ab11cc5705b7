package memory

import "github.com/LavaJover/promise-case-service/internal/domain"

// Stored rows carry an insertion sequence so listings have a stable order.
type domainCase struct {
	domain.Case
	seq int64
}

type domainPartner struct {
	domain.Partner
	seq int64
}

type domainSettlement struct {
	domain.Settlement
	seq int64
}

type domainDeposit struct {
	domain.DepositTransaction
	seq int64
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (r *domainCase) out() *domain.Case {
	c := r.Case
	c.TeamLeaderID = cloneString(c.TeamLeaderID)
	c.MasterRating = cloneInt(c.MasterRating)
	c.CustomerRating = cloneInt(c.CustomerRating)
	return &c
}

func (r *domainPartner) out() *domain.Partner {
	p := r.Partner
	p.MasterID = cloneString(p.MasterID)
	return &p
}

func (r *domainSettlement) out() *domain.Settlement {
	s := r.Settlement
	s.PayerID = cloneString(s.PayerID)
	s.AdminMemo = cloneString(s.AdminMemo)
	return &s
}

func (r *domainDeposit) out() *domain.DepositTransaction {
	d := r.DepositTransaction
	d.SettlementID = cloneString(d.SettlementID)
	return &d
}
