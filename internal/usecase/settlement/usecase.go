package settlement

import (
	"context"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/metrics"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	settlementdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/settlement"
	"go.uber.org/zap"
)

type SettlementUsecase interface {
	// GenerateCaseSettlements must be called with the transaction of the
	// transition that triggers it.
	GenerateCaseSettlements(ctx context.Context, c *domain.Case) (*settlementdto.GenerateOutput, error)
	RecordSettlementPayment(ctx context.Context, input *settlementdto.RecordPaymentInput) (*domain.Settlement, error)
	OverrideSettlementAmount(ctx context.Context, input *settlementdto.OverrideAmountInput) (*domain.Settlement, error)
	IssueRefund(ctx context.Context, input *settlementdto.IssueRefundInput) (*domain.Settlement, error)
	GetSettlement(ctx context.Context, settlementID string) (*domain.Settlement, error)
	ListSettlements(ctx context.Context, input *settlementdto.ListSettlementsInput) ([]*domain.Settlement, error)
	Summary(ctx context.Context, recipientID string) (*domain.SettlementSummary, error)
}

type Options struct {
	HeadquartersID     string
	PayoutWindowClosed bool
}

type DefaultSettlementUsecase struct {
	settlementRepo domain.SettlementRepository
	caseRepo       domain.CaseRepository
	partnerRepo    domain.PartnerRepository
	depositRepo    domain.DepositRepository
	transactor     domain.Transactor
	rates          *domain.RateTable
	opts           Options
	events         *usecase.EventEmitter
	metrics        *metrics.CaseMetrics
	logger         *zap.Logger
}

func NewDefaultSettlementUsecase(
	settlementRepo domain.SettlementRepository,
	caseRepo domain.CaseRepository,
	partnerRepo domain.PartnerRepository,
	depositRepo domain.DepositRepository,
	transactor domain.Transactor,
	rates *domain.RateTable,
	opts Options,
	events *usecase.EventEmitter,
	metrics *metrics.CaseMetrics,
	logger *zap.Logger,
) *DefaultSettlementUsecase {
	return &DefaultSettlementUsecase{
		settlementRepo: settlementRepo,
		caseRepo:       caseRepo,
		partnerRepo:    partnerRepo,
		depositRepo:    depositRepo,
		transactor:     transactor,
		rates:          rates,
		opts:           opts,
		events:         events,
		metrics:        metrics,
		logger:         logger,
	}
}
