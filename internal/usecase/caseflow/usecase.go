package caseflow

import (
	"context"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/metrics"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	"github.com/LavaJover/promise-case-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

type CaseUsecase interface {
	CreateCase(ctx context.Context, input *casedto.CreateCaseInput) (*domain.Case, error)
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	ListClaimable(ctx context.Context, region string) ([]*domain.Case, error)
	ListCases(ctx context.Context, input *casedto.ListCasesInput) ([]*domain.Case, error)
	Claim(ctx context.Context, input *casedto.ClaimInput) (*domain.Case, error)
	AssignTo(ctx context.Context, input *casedto.AssignInput) (*domain.Case, error)
	Advance(ctx context.Context, input *casedto.AdvanceInput) (*domain.Case, error)
	CancelClaim(ctx context.Context, caseID, actorID string) (*domain.Case, error)
	FinalizePrice(ctx context.Context, input *casedto.FinalizePriceInput) (*domain.Case, error)
	RateCase(ctx context.Context, input *casedto.RateCaseInput) (*domain.Case, error)
}

type DefaultCaseUsecase struct {
	caseRepo    domain.CaseRepository
	partnerRepo domain.PartnerRepository
	transactor  domain.Transactor
	partners    usecase.PartnerUsecase
	settlements settlement.SettlementUsecase
	events      *usecase.EventEmitter
	metrics     *metrics.CaseMetrics
	logger      *zap.Logger
}

func NewDefaultCaseUsecase(
	caseRepo domain.CaseRepository,
	partnerRepo domain.PartnerRepository,
	transactor domain.Transactor,
	partners usecase.PartnerUsecase,
	settlements settlement.SettlementUsecase,
	events *usecase.EventEmitter,
	metrics *metrics.CaseMetrics,
	logger *zap.Logger,
) *DefaultCaseUsecase {
	return &DefaultCaseUsecase{
		caseRepo:    caseRepo,
		partnerRepo: partnerRepo,
		transactor:  transactor,
		partners:    partners,
		settlements: settlements,
		events:      events,
		metrics:     metrics,
		logger:      logger,
	}
}

// releasePresence runs after a case left the active set. Presence is
// advisory, so failures are only logged.
func (uc *DefaultCaseUsecase) releasePresence(ctx context.Context, partnerID string) {
	if partnerID == "" {
		return
	}
	if _, err := uc.partners.ReleaseIfIdle(ctx, partnerID); err != nil {
		uc.logger.Warn("failed to release partner presence", zap.String("partner_id", partnerID), zap.Error(err))
	}
}

func statusEvent(c *domain.Case, from domain.CaseStatus, actorID string) domain.Event {
	return domain.Event{
		Type:        domain.EventStatusChanged,
		CaseID:      c.ID,
		ActorID:     actorID,
		RecipientID: c.CustomerID,
		FromStatus:  string(from),
		ToStatus:    string(c.Status),
	}
}
