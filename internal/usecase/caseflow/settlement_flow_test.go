package caseflow

import (
	"context"
	"testing"

	"github.com/LavaJover/promise-case-service/internal/domain"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	partnerdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/partner"
	settlementdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/settlement"
	"github.com/LavaJover/promise-case-service/internal/usecase/settlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTeamSettlingCreatesHierarchicalSettlements(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.master(t, "master-1")
	h.leader(t, "leader-1", "master-1")
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "leader-1", 1_000_000, 50_000)
	h.advance(t, c.ID, "leader-1", domain.StatusInProgress, domain.StatusTeamSettling)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byType := settlementsByType(rows)

	commission := byType[domain.SettlementDealerCommission]
	require.NotNil(t, commission)
	assert.Equal(t, "leader-1", commission.RecipientID)
	assert.Equal(t, int64(100_000), commission.Amount)
	assert.Equal(t, domain.SettlementPending, commission.Status)

	override := byType[domain.SettlementLeaderOverride]
	require.NotNil(t, override)
	assert.Equal(t, "master-1", override.RecipientID)
	assert.Equal(t, int64(20_000), override.Amount)

	remittance := byType[domain.SettlementUsageFeeRemittance]
	require.NotNil(t, remittance)
	assert.Equal(t, hqID, remittance.RecipientID)
	require.NotNil(t, remittance.PayerID)
	assert.Equal(t, "leader-1", *remittance.PayerID)
	assert.Equal(t, int64(50_000), remittance.Amount)

	created := h.events.OfType(domain.EventSettlementCreated)
	require.Len(t, created, 3)
	recipients := map[string]bool{}
	for _, e := range created {
		recipients[e.RecipientID] = true
	}
	assert.True(t, recipients["leader-1"])
	assert.True(t, recipients["master-1"])
}

func TestMasterGradeLeaderHasNoOverride(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.master(t, "master-1")
	h.addPartner(t, domain.Partner{UserID: "senior", Role: domain.RoleLeader, Grade: domain.GradeMaster, MasterID: strPtr("master-1")})
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "senior", 1_000_000, 0)
	h.advance(t, c.ID, "senior", domain.StatusInProgress, domain.StatusTeamSettling)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.SettlementDealerCommission, rows[0].Type)
	assert.Equal(t, int64(100_000), rows[0].Amount)
}

func TestDealerSaleCreatesDealerOverride(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.master(t, "master-1")
	h.addPartner(t, domain.Partner{UserID: "dealer-1", Role: domain.RoleDealer, Grade: domain.GradeC, MasterID: strPtr("master-1")})
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "dealer-1", 500_000, 0)
	h.advance(t, c.ID, "dealer-1", domain.StatusInProgress, domain.StatusTeamSettling)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byType := settlementsByType(rows)
	commission := byType[domain.SettlementDealerCommission]
	require.NotNil(t, commission)
	assert.Equal(t, "dealer-1", commission.RecipientID)
	assert.Equal(t, int64(50_000), commission.Amount)

	override := byType[domain.SettlementDealerOverride]
	require.NotNil(t, override)
	assert.Equal(t, "master-1", override.RecipientID)
	assert.Equal(t, int64(10_000), override.Amount)
	assert.Nil(t, byType[domain.SettlementLeaderOverride])
}

func TestNoUplineNoOverride(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.leader(t, "solo", "")
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "solo", 200_000, 0)
	h.advance(t, c.ID, "solo", domain.StatusInProgress, domain.StatusTeamSettling)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	for _, s := range rows {
		assert.False(t, s.Type.IsOverride())
	}
}

func TestSettlementGenerationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.master(t, "master-1")
	h.leader(t, "leader-1", "master-1")
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "leader-1", 1_000_000, 30_000)
	settling := h.advance(t, c.ID, "leader-1", domain.StatusInProgress, domain.StatusTeamSettling)

	again, err := h.settlements.GenerateCaseSettlements(ctx, settling)
	require.NoError(t, err)
	assert.Len(t, again.Settlements, 3)
	assert.Empty(t, again.Created)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestGenerateRequiresClaimant(t *testing.T) {
	h := newHarness(t)

	unclaimed := &domain.Case{ID: "orphan", CustomerID: "customer-1", Status: domain.StatusTeamSettling}
	_, err := h.settlements.GenerateCaseSettlements(context.Background(), unclaimed)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestTeamSettlingRollsBackWhenGenerationFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.admin(t, "admin-1")

	c := &domain.Case{
		CustomerID:   "customer-1",
		Status:       domain.StatusInProgress,
		TeamLeaderID: strPtr("departed-leader"),
		FinalPrice:   1_000_000,
	}
	require.NoError(t, h.store.CreateCase(ctx, c))

	_, err := h.cases.Advance(ctx, &casedto.AdvanceInput{
		CaseID:         c.ID,
		ActorID:        "admin-1",
		ExpectedStatus: domain.StatusInProgress,
		TargetStatus:   domain.StatusTeamSettling,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := h.cases.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
	assert.Empty(t, h.events.OfType(domain.EventStatusChanged))
}

func TestSettlementPaymentLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.master(t, "master-1")
	h.leader(t, "leader-1", "master-1")
	h.admin(t, "admin-1")
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "leader-1", 1_000_000, 50_000)
	h.advance(t, c.ID, "leader-1", domain.StatusInProgress, domain.StatusTeamSettling)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	byType := settlementsByType(rows)
	commission := byType[domain.SettlementDealerCommission]
	remittance := byType[domain.SettlementUsageFeeRemittance]

	// paying before completion is an advance payment
	paid, err := h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: commission.ID,
		Status:       domain.SettlementPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPaid, paid.Status)
	assert.True(t, paid.IsPrePaid)

	_, err = h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: commission.ID,
		Status:       domain.SettlementPaid,
	})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	// headquarters confirms the remittance only from hq_check on
	_, err = h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: remittance.ID,
		Status:       domain.SettlementCompleted,
	})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	h.advance(t, c.ID, "leader-1", domain.StatusTeamSettling, domain.StatusHQCheck)
	h.advance(t, c.ID, "admin-1", domain.StatusHQCheck, domain.StatusCompleted)

	completed, err := h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: remittance.ID,
		Status:       domain.SettlementCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementCompleted, completed.Status)
	assert.False(t, completed.IsPrePaid)

	override := byType[domain.SettlementLeaderOverride]
	postPaid, err := h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: override.ID,
		Status:       domain.SettlementPaid,
	})
	require.NoError(t, err)
	assert.False(t, postPaid.IsPrePaid)

	changes := h.events.OfType(domain.EventSettlementStatusChanged)
	require.Len(t, changes, 3)
	assert.Equal(t, "leader-1", changes[1].RecipientID, "remittance notice goes to the payer")
}

func TestOverrideSettlementAmount(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.leader(t, "leader-1", "")
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "leader-1", 1_000_000, 0)
	h.advance(t, c.ID, "leader-1", domain.StatusInProgress, domain.StatusTeamSettling)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	commission := settlementsByType(rows)[domain.SettlementDealerCommission]
	require.NotNil(t, commission)

	_, err = h.settlements.OverrideSettlementAmount(ctx, &settlementdto.OverrideAmountInput{SettlementID: commission.ID, Amount: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	adjusted, err := h.settlements.OverrideSettlementAmount(ctx, &settlementdto.OverrideAmountInput{
		SettlementID: commission.ID,
		Amount:       120_000,
		Memo:         "holiday surcharge",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120_000), adjusted.Amount)
	require.NotNil(t, adjusted.AdminMemo)
	assert.Equal(t, "holiday surcharge", *adjusted.AdminMemo)

	_, err = h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: commission.ID,
		Status:       domain.SettlementPaid,
	})
	require.NoError(t, err)

	_, err = h.settlements.OverrideSettlementAmount(ctx, &settlementdto.OverrideAmountInput{
		SettlementID: commission.ID,
		Amount:       1,
		Memo:         "too late",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyFinal)

	stored, err := h.settlements.GetSettlement(ctx, commission.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120_000), stored.Amount)
}

func TestPayoutWindowClosed(t *testing.T) {
	ctx := context.Background()
	h := newHarnessWithOptions(t, settlement.Options{HeadquartersID: hqID, PayoutWindowClosed: true})
	h.leader(t, "leader-1", "")
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "leader-1", 1_000_000, 0)
	h.advance(t, c.ID, "leader-1", domain.StatusInProgress, domain.StatusTeamSettling)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	_, err = h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: rows[0].ID,
		Status:       domain.SettlementPaid,
	})
	assert.ErrorIs(t, err, domain.ErrPayoutWindowClosed)

	stored, err := h.settlements.GetSettlement(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPending, stored.Status)
}

func TestRemittanceFromDeposit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.leader(t, "leader-1", "")
	h.admin(t, "admin-1")
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "leader-1", 1_000_000, 50_000)
	h.advance(t, c.ID, "leader-1", domain.StatusInProgress, domain.StatusTeamSettling)
	h.advance(t, c.ID, "leader-1", domain.StatusTeamSettling, domain.StatusHQCheck)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	byType := settlementsByType(rows)
	remittance := byType[domain.SettlementUsageFeeRemittance]
	require.NotNil(t, remittance)

	_, err = h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: byType[domain.SettlementDealerCommission].ID,
		Status:       domain.SettlementPaid,
		FromDeposit:  true,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	// not enough money: nothing changes
	_, err = h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: remittance.ID,
		Status:       domain.SettlementCompleted,
		FromDeposit:  true,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientDeposit)
	stored, err := h.settlements.GetSettlement(ctx, remittance.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPending, stored.Status)

	_, err = h.partners.Deposit(ctx, &partnerdto.DepositInput{PartnerID: "leader-1", Amount: 80_000})
	require.NoError(t, err)

	completed, err := h.settlements.RecordSettlementPayment(ctx, &settlementdto.RecordPaymentInput{
		SettlementID: remittance.ID,
		Status:       domain.SettlementCompleted,
		FromDeposit:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementCompleted, completed.Status)

	leader, err := h.partners.GetPartner(ctx, "leader-1")
	require.NoError(t, err)
	assert.Equal(t, int64(30_000), leader.DepositBalance)

	ledger, err := h.partners.ListDeposits(ctx, "leader-1")
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, domain.DepositKindUsageFee, ledger[0].Kind)
	assert.Equal(t, int64(-50_000), ledger[0].Amount)
	require.NotNil(t, ledger[0].SettlementID)
	assert.Equal(t, remittance.ID, *ledger[0].SettlementID)
}

func TestIssueRefund(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.leader(t, "leader-1", "")
	c := h.openCase(t)

	_, err := h.settlements.IssueRefund(ctx, &settlementdto.IssueRefundInput{CaseID: c.ID, Amount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	refund, err := h.settlements.IssueRefund(ctx, &settlementdto.IssueRefundInput{CaseID: c.ID, Amount: 70_000, Memo: "cancelled by family"})
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementRefund, refund.Type)
	assert.Equal(t, "customer-1", refund.RecipientID)

	_, err = h.settlements.IssueRefund(ctx, &settlementdto.IssueRefundInput{CaseID: c.ID, Amount: 10_000})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// a refund does not count as generated settlements
	h.driveToInProgress(t, c.ID, "leader-1", 1_000_000, 0)
	h.advance(t, c.ID, "leader-1", domain.StatusInProgress, domain.StatusTeamSettling)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

// unseenRefundRepo hides existing rows from listing, as when a concurrent
// refund commits after the duplicate check ran.
type unseenRefundRepo struct {
	domain.SettlementRepository
}

func (unseenRefundRepo) ListSettlements(context.Context, domain.SettlementFilter) ([]*domain.Settlement, error) {
	return nil, nil
}

func TestIssueRefundLosingRaceConflicts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := h.openCase(t)

	_, err := h.settlements.IssueRefund(ctx, &settlementdto.IssueRefundInput{CaseID: c.ID, Amount: 70_000})
	require.NoError(t, err)

	racing := settlement.NewDefaultSettlementUsecase(unseenRefundRepo{h.store}, h.store, h.store, h.store, h.store,
		domain.NewRateTable(domain.Rate{}), settlement.Options{HeadquartersID: hqID}, nil, nil, zap.NewNop())
	_, err = racing.IssueRefund(ctx, &settlementdto.IssueRefundInput{CaseID: c.ID, Amount: 10_000})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	rows, err := h.settlements.ListSettlements(ctx, &settlementdto.ListSettlementsInput{CaseID: c.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(70_000), rows[0].Amount)
}

func TestSettlementSummary(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.master(t, "master-1")
	h.leader(t, "leader-1", "master-1")
	c := h.openCase(t)

	h.driveToInProgress(t, c.ID, "leader-1", 1_000_000, 50_000)
	h.advance(t, c.ID, "leader-1", domain.StatusInProgress, domain.StatusTeamSettling)

	summary, err := h.settlements.Summary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(120_000), summary.PendingPayouts)
	assert.Equal(t, int64(50_000), summary.PendingRemittances)

	mine, err := h.settlements.Summary(ctx, "master-1")
	require.NoError(t, err)
	assert.Equal(t, int64(20_000), mine.PendingPayouts)
	assert.Zero(t, mine.PendingRemittances)
}

func strPtr(s string) *string { return &s }
