package setup

import (
	"fmt"

	"github.com/LavaJover/promise-case-service/internal/usecase"
	"github.com/LavaJover/promise-case-service/internal/usecase/caseflow"
	"github.com/LavaJover/promise-case-service/internal/usecase/settlement"
)

type UseCases struct {
	PartnerUsecase    usecase.PartnerUsecase
	SettlementUsecase settlement.SettlementUsecase
	CaseUsecase       caseflow.CaseUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	rates, err := deps.Config.Settlement.RateTable()
	if err != nil {
		return nil, fmt.Errorf("settlement rates: %w", err)
	}
	events, err := usecase.NewEventEmitter(deps.EventSink, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("event emitter: %w", err)
	}
	repos := deps.Repositories

	partnerUsecase := usecase.NewDefaultPartnerUsecase(
		repos.PartnerRepo,
		repos.CaseRepo,
		repos.DepositRepo,
		repos.Transactor,
		events,
		deps.Metrics,
		deps.Logger,
	)

	settlementUsecase := settlement.NewDefaultSettlementUsecase(
		repos.SettlementRepo,
		repos.CaseRepo,
		repos.PartnerRepo,
		repos.DepositRepo,
		repos.Transactor,
		rates,
		settlement.Options{
			HeadquartersID:     deps.Config.Settlement.HeadquartersID,
			PayoutWindowClosed: deps.Config.Settlement.PayoutWindowClosed,
		},
		events,
		deps.Metrics,
		deps.Logger,
	)

	caseUsecase := caseflow.NewDefaultCaseUsecase(
		repos.CaseRepo,
		repos.PartnerRepo,
		repos.Transactor,
		partnerUsecase,
		settlementUsecase,
		events,
		deps.Metrics,
		deps.Logger,
	)

	return &UseCases{
		PartnerUsecase:    partnerUsecase,
		SettlementUsecase: settlementUsecase,
		CaseUsecase:       caseUsecase,
	}, nil
}
