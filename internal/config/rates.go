package config

import (
	"fmt"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/shopspring/decimal"
)

// RateTable converts the configured rates into the settlement rate table.
func (s Settlement) RateTable() (*domain.RateTable, error) {
	fallback, err := s.DefaultRate.toDomain()
	if err != nil {
		return nil, fmt.Errorf("default_rate: %w", err)
	}

	rates := make([]domain.Rate, 0, len(s.Rates))
	for i, r := range s.Rates {
		rate, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("rates[%d]: %w", i, err)
		}
		rates = append(rates, rate)
	}

	return domain.NewRateTable(fallback, rates...), nil
}

func (r Rate) toDomain() (domain.Rate, error) {
	commission, err := parsePercent(r.CommissionPercent)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("commission_percent: %w", err)
	}
	override, err := parsePercent(r.OverridePercent)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("override_percent: %w", err)
	}
	usageFee, err := parsePercent(r.UsageFeePercent)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("usage_fee_percent: %w", err)
	}
	grade, err := domain.ParseGrade(r.Grade)
	if err != nil {
		return domain.Rate{}, err
	}
	if r.UsageFeeFixed < 0 {
		return domain.Rate{}, fmt.Errorf("%w: negative usage_fee_fixed", domain.ErrInvalidArgument)
	}

	return domain.Rate{
		Role:              domain.Role(r.Role),
		Grade:             grade,
		CommissionPercent: commission,
		OverridePercent:   override,
		UsageFeePercent:   usageFee,
		UsageFeeFixed:     r.UsageFeeFixed,
	}, nil
}

func parsePercent(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("%w: percent %s out of range", domain.ErrInvalidArgument, s)
	}
	return d, nil
}
