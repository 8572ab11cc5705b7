package settlementdto

import "github.com/LavaJover/promise-case-service/internal/domain"

type GenerateOutput struct {
	Settlements []*domain.Settlement
	// Created holds only the rows inserted by this call.
	Created []*domain.Settlement
}
