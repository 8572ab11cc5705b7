package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Rate is one row of the settlement rate table. Percentages are plain
// percent values ("10" means 10%).
type Rate struct {
	Role              Role
	Grade             Grade
	CommissionPercent decimal.Decimal
	OverridePercent   decimal.Decimal
	UsageFeePercent   decimal.Decimal
	UsageFeeFixed     int64
}

type rateKey struct {
	role  Role
	grade Grade
}

// RateTable resolves the rate for an operator: exact (role, grade) first,
// then the role default (empty grade), then the table fallback.
type RateTable struct {
	rates    map[rateKey]Rate
	fallback Rate
}

func NewRateTable(fallback Rate, rates ...Rate) *RateTable {
	t := &RateTable{rates: make(map[rateKey]Rate, len(rates)), fallback: fallback}
	for _, r := range rates {
		t.rates[rateKey{role: r.Role, grade: r.Grade}] = r
	}
	return t
}

func (t *RateTable) Lookup(role Role, grade Grade) Rate {
	if r, ok := t.rates[rateKey{role: role, grade: grade}]; ok {
		return r
	}
	if r, ok := t.rates[rateKey{role: role}]; ok {
		return r
	}
	return t.fallback
}

func (r Rate) Commission(finalPrice int64) int64 {
	return ApplyPercent(finalPrice, r.CommissionPercent)
}

func (r Rate) Override(finalPrice int64) int64 { return ApplyPercent(finalPrice, r.OverridePercent) }

func (r Rate) UsageFee(finalPrice int64) int64 {
	return r.UsageFeeFixed + ApplyPercent(finalPrice, r.UsageFeePercent)
}

// ApplyPercent returns amount*pct/100 truncated to whole currency units.
func ApplyPercent(amount int64, pct decimal.Decimal) int64 {
	if amount <= 0 || pct.Sign() <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(pct).Div(hundred).Truncate(0).IntPart()
}
