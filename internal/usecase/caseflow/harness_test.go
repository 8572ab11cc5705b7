package caseflow

import (
	"context"
	"testing"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/memory"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/metrics"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/notifier"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	"github.com/LavaJover/promise-case-service/internal/usecase/settlement"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const hqID = "headquarters"

type harness struct {
	store       *memory.Store
	events      *notifier.Recorder
	partners    *usecase.DefaultPartnerUsecase
	settlements *settlement.DefaultSettlementUsecase
	cases       *DefaultCaseUsecase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithOptions(t, settlement.Options{HeadquartersID: hqID})
}

func newHarnessWithOptions(t *testing.T, opts settlement.Options) *harness {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	recorder := &notifier.Recorder{}
	caseMetrics := metrics.NewCaseMetrics(prometheus.NewRegistry())

	emitter, err := usecase.NewEventEmitter(recorder, logger)
	require.NoError(t, err)

	rates := domain.NewRateTable(domain.Rate{
		CommissionPercent: decimal.NewFromInt(10),
		OverridePercent:   decimal.NewFromInt(2),
	})

	partners := usecase.NewDefaultPartnerUsecase(store, store, store, store, emitter, caseMetrics, logger)
	settlements := settlement.NewDefaultSettlementUsecase(store, store, store, store, store, rates, opts, emitter, caseMetrics, logger)
	cases := NewDefaultCaseUsecase(store, store, store, partners, settlements, emitter, caseMetrics, logger)

	return &harness{
		store:       store,
		events:      recorder,
		partners:    partners,
		settlements: settlements,
		cases:       cases,
	}
}

func (h *harness) addPartner(t *testing.T, p domain.Partner) *domain.Partner {
	t.Helper()
	if p.ApprovalStatus == "" {
		p.ApprovalStatus = domain.ApprovalApproved
	}
	if p.Availability == "" {
		p.Availability = domain.AvailabilityWaiting
	}
	require.NoError(t, h.store.CreatePartner(context.Background(), &p))
	return &p
}

func (h *harness) leader(t *testing.T, id string, masterID string) *domain.Partner {
	t.Helper()
	p := domain.Partner{UserID: id, Role: domain.RoleLeader, Grade: domain.GradeB}
	if masterID != "" {
		p.MasterID = &masterID
	}
	return h.addPartner(t, p)
}

func (h *harness) master(t *testing.T, id string) *domain.Partner {
	t.Helper()
	return h.addPartner(t, domain.Partner{UserID: id, Role: domain.RoleMaster, Grade: domain.GradeMaster})
}

func (h *harness) admin(t *testing.T, id string) *domain.Partner {
	t.Helper()
	return h.addPartner(t, domain.Partner{UserID: id, Role: domain.RoleAdmin})
}

func (h *harness) openCase(t *testing.T) *domain.Case {
	t.Helper()
	c, err := h.cases.CreateCase(context.Background(), &casedto.CreateCaseInput{
		CustomerID:  "customer-1",
		Location:    "Seoul Memorial Hall",
		PackageName: "standard",
		Region:      "seoul",
	})
	require.NoError(t, err)
	return c
}

func (h *harness) advance(t *testing.T, caseID, actorID string, from, to domain.CaseStatus) *domain.Case {
	t.Helper()
	c, err := h.cases.Advance(context.Background(), &casedto.AdvanceInput{
		CaseID:         caseID,
		ActorID:        actorID,
		ExpectedStatus: from,
		TargetStatus:   to,
	})
	require.NoError(t, err)
	return c
}

// driveToInProgress claims the case for leaderID and prices it.
func (h *harness) driveToInProgress(t *testing.T, caseID, leaderID string, finalPrice, commission int64) {
	t.Helper()
	ctx := context.Background()

	_, err := h.cases.Claim(ctx, &casedto.ClaimInput{CaseID: caseID, ActorID: leaderID})
	require.NoError(t, err)
	h.advance(t, caseID, leaderID, domain.StatusAssigned, domain.StatusConsulting)

	_, err = h.cases.FinalizePrice(ctx, &casedto.FinalizePriceInput{
		CaseID:           caseID,
		ActorID:          leaderID,
		ExpectedStatus:   domain.StatusConsulting,
		FinalPrice:       finalPrice,
		CommissionAmount: &commission,
	})
	require.NoError(t, err)
	h.advance(t, caseID, leaderID, domain.StatusConsulting, domain.StatusInProgress)
}

func settlementsByType(rows []*domain.Settlement) map[domain.SettlementType]*domain.Settlement {
	out := make(map[domain.SettlementType]*domain.Settlement, len(rows))
	for _, s := range rows {
		out[s.Type] = s
	}
	return out
}
