package caseflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/LavaJover/promise-case-service/internal/domain"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	"go.uber.org/zap"
)

// CreateCase opens a customer request. It enters the board unclaimed.
func (uc *DefaultCaseUsecase) CreateCase(ctx context.Context, input *casedto.CreateCaseInput) (*domain.Case, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidArgument)
	}

	c := &domain.Case{
		CustomerID:  input.CustomerID,
		Location:    input.Location,
		PackageName: input.PackageName,
		Region:      input.Region,
		Status:      domain.StatusRequested,
	}
	if err := uc.caseRepo.CreateCase(ctx, c); err != nil {
		return nil, err
	}

	uc.metrics.RecordCaseCreated(c.Region)
	uc.events.Emit(ctx, domain.Event{
		Type:        domain.EventCaseCreated,
		CaseID:      c.ID,
		ActorID:     c.CustomerID,
		RecipientID: c.CustomerID,
		ToStatus:    string(c.Status),
	})
	uc.logger.Info("case created",
		zap.String("case_id", c.ID),
		zap.String("customer_id", c.CustomerID),
		zap.String("region", c.Region),
	)
	return c, nil
}
