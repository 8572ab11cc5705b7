package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/metrics"
	partnerdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/partner"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

type PartnerUsecase interface {
	RegisterPartner(ctx context.Context, input *partnerdto.RegisterPartnerInput) (*domain.Partner, error)
	GetPartner(ctx context.Context, partnerID string) (*domain.Partner, error)
	GetUpline(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListSubordinates(ctx context.Context, masterID string) ([]*domain.Partner, error)
	SetAvailability(ctx context.Context, partnerID string, state domain.Availability) (*domain.Partner, error)
	ApproveApplicant(ctx context.Context, masterID, applicantID string) (*domain.Partner, error)
	ChangeApprovalStatus(ctx context.Context, partnerID string, status domain.ApprovalStatus) (*domain.Partner, error)
	ChangeGrade(ctx context.Context, partnerID string, grade domain.Grade) (*domain.Partner, error)
	Deposit(ctx context.Context, input *partnerdto.DepositInput) (*domain.DepositTransaction, error)
	ListDeposits(ctx context.Context, partnerID string) ([]*domain.DepositTransaction, error)
	MarkWorking(ctx context.Context, partnerID string) error
	ReleaseIfIdle(ctx context.Context, partnerID string) (bool, error)
	ReconcilePresence(ctx context.Context) (int, error)
}

type DefaultPartnerUsecase struct {
	partnerRepo domain.PartnerRepository
	caseRepo    domain.CaseRepository
	depositRepo domain.DepositRepository
	transactor  domain.Transactor
	events      *EventEmitter
	metrics     *metrics.CaseMetrics
	logger      *zap.Logger
}

func NewDefaultPartnerUsecase(
	partnerRepo domain.PartnerRepository,
	caseRepo domain.CaseRepository,
	depositRepo domain.DepositRepository,
	transactor domain.Transactor,
	events *EventEmitter,
	metrics *metrics.CaseMetrics,
	logger *zap.Logger,
) *DefaultPartnerUsecase {
	return &DefaultPartnerUsecase{
		partnerRepo: partnerRepo,
		caseRepo:    caseRepo,
		depositRepo: depositRepo,
		transactor:  transactor,
		events:      events,
		metrics:     metrics,
		logger:      logger,
	}
}

func (uc *DefaultPartnerUsecase) RegisterPartner(ctx context.Context, input *partnerdto.RegisterPartnerInput) (*domain.Partner, error) {
	switch input.Role {
	case domain.RoleLeader, domain.RoleDealer, domain.RoleAssistant, domain.RoleMaster, domain.RoleCustomer, domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, input.Role)
	}
	if _, err := domain.ParseGrade(string(input.Grade)); err != nil {
		return nil, err
	}
	if input.MasterID != nil {
		if *input.MasterID == input.UserID && input.UserID != "" {
			return nil, fmt.Errorf("%w: partner cannot be its own master", domain.ErrInvalidArgument)
		}
		if _, err := uc.partnerRepo.GetPartnerByID(ctx, *input.MasterID); err != nil {
			return nil, fmt.Errorf("master %s: %w", *input.MasterID, err)
		}
	}

	partner := &domain.Partner{
		UserID:         input.UserID,
		Name:           input.Name,
		Role:           input.Role,
		Grade:          input.Grade,
		Region:         input.Region,
		MasterID:       input.MasterID,
		ApprovalStatus: domain.ApprovalPending,
		Availability:   domain.AvailabilityOff,
	}
	if err := uc.partnerRepo.CreatePartner(ctx, partner); err != nil {
		return nil, err
	}

	uc.logger.Info("partner registered",
		zap.String("partner_id", partner.UserID),
		zap.String("role", string(partner.Role)),
	)
	return partner, nil
}

func (uc *DefaultPartnerUsecase) GetPartner(ctx context.Context, partnerID string) (*domain.Partner, error) {
	return uc.partnerRepo.GetPartnerByID(ctx, partnerID)
}

// GetUpline returns the direct master; ErrNotFound if the partner has none.
func (uc *DefaultPartnerUsecase) GetUpline(ctx context.Context, partnerID string) (*domain.Partner, error) {
	partner, err := uc.partnerRepo.GetPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if !partner.HasUpline() {
		return nil, fmt.Errorf("%w: partner %s has no upline", domain.ErrNotFound, partnerID)
	}
	return uc.partnerRepo.GetPartnerByID(ctx, *partner.MasterID)
}

func (uc *DefaultPartnerUsecase) ListSubordinates(ctx context.Context, masterID string) ([]*domain.Partner, error) {
	return uc.partnerRepo.ListPartners(ctx, domain.PartnerFilter{MasterID: masterID})
}

func (uc *DefaultPartnerUsecase) SetAvailability(ctx context.Context, partnerID string, state domain.Availability) (*domain.Partner, error) {
	partner, err := uc.partnerRepo.GetPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if !partner.IsApproved() {
		return nil, fmt.Errorf("%w: partner %s is %s", domain.ErrNotApproved, partnerID, partner.ApprovalStatus)
	}
	if partner.Availability == state {
		return partner, nil
	}

	if err := uc.partnerRepo.UpdateAvailability(ctx, partnerID, state); err != nil {
		return nil, err
	}
	uc.emitAvailability(ctx, partner, state, partnerID)

	partner.Availability = state
	return partner, nil
}

// ApproveApplicant is how a master takes a pending applicant into its team.
func (uc *DefaultPartnerUsecase) ApproveApplicant(ctx context.Context, masterID, applicantID string) (*domain.Partner, error) {
	if masterID == applicantID {
		return nil, fmt.Errorf("%w: partner cannot approve itself", domain.ErrInvalidArgument)
	}
	master, err := uc.partnerRepo.GetPartnerByID(ctx, masterID)
	if err != nil {
		return nil, err
	}
	if !master.IsApproved() {
		return nil, fmt.Errorf("%w: master %s is %s", domain.ErrNotApproved, masterID, master.ApprovalStatus)
	}
	if master.Role != domain.RoleMaster && master.Grade != domain.GradeMaster {
		return nil, fmt.Errorf("%w: partner %s is not a master", domain.ErrNotEligible, masterID)
	}

	applicant, err := uc.partnerRepo.GetPartnerByID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if applicant.ApprovalStatus != domain.ApprovalPending {
		return nil, fmt.Errorf("%w: applicant %s is %s", domain.ErrConflict, applicantID, applicant.ApprovalStatus)
	}
	if applicant.MasterID != nil && *applicant.MasterID != "" && *applicant.MasterID != masterID {
		return nil, fmt.Errorf("%w: applicant %s reports to another master", domain.ErrNotUpline, applicantID)
	}

	if err := uc.partnerRepo.UpdateApproval(ctx, applicantID, domain.ApprovalApproved, &masterID); err != nil {
		return nil, err
	}

	uc.logger.Info("applicant approved",
		zap.String("master_id", masterID),
		zap.String("partner_id", applicantID),
	)
	applicant.ApprovalStatus = domain.ApprovalApproved
	applicant.MasterID = &masterID
	return applicant, nil
}

// ChangeApprovalStatus refuses to suspend a partner that still holds active
// cases; the caller has to resolve those cases first. The partner row stays
// locked from the count to the update, so a claim cannot slip in between.
func (uc *DefaultPartnerUsecase) ChangeApprovalStatus(ctx context.Context, partnerID string, status domain.ApprovalStatus) (*domain.Partner, error) {
	var (
		partner  *domain.Partner
		wentIdle bool
	)
	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		partner, err = uc.partnerRepo.LockPartner(ctx, partnerID, true)
		if err != nil {
			return err
		}

		if status == domain.ApprovalSuspended {
			active, err := uc.caseRepo.CountActiveByLeader(ctx, partnerID)
			if err != nil {
				return err
			}
			if active > 0 {
				return fmt.Errorf("%w: partner %s holds %d active cases", domain.ErrHasActiveCases, partnerID, active)
			}
		}

		if err := uc.partnerRepo.UpdateApproval(ctx, partnerID, status, nil); err != nil {
			return err
		}
		partner.ApprovalStatus = status

		if status == domain.ApprovalSuspended && partner.Availability != domain.AvailabilityOff {
			if err := uc.partnerRepo.UpdateAvailability(ctx, partnerID, domain.AvailabilityOff); err != nil {
				return err
			}
			wentIdle = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if wentIdle {
		uc.emitAvailability(ctx, partner, domain.AvailabilityOff, "")
		partner.Availability = domain.AvailabilityOff
	}

	uc.logger.Info("approval status changed",
		zap.String("partner_id", partnerID),
		zap.String("status", string(status)),
	)
	return partner, nil
}

func (uc *DefaultPartnerUsecase) ChangeGrade(ctx context.Context, partnerID string, grade domain.Grade) (*domain.Partner, error) {
	if _, err := domain.ParseGrade(string(grade)); err != nil {
		return nil, err
	}
	if err := uc.partnerRepo.UpdateGrade(ctx, partnerID, grade); err != nil {
		return nil, err
	}
	return uc.partnerRepo.GetPartnerByID(ctx, partnerID)
}

func (uc *DefaultPartnerUsecase) Deposit(ctx context.Context, input *partnerdto.DepositInput) (*domain.DepositTransaction, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: deposit amount must be positive", domain.ErrInvalidArgument)
	}
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	var entry *domain.DepositTransaction
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := uc.partnerRepo.AdjustDeposit(ctx, input.PartnerID, input.Amount)
		if err != nil {
			return err
		}
		entry = &domain.DepositTransaction{
			ID:           idGenerator(),
			PartnerID:    input.PartnerID,
			Kind:         domain.DepositKindDeposit,
			Amount:       input.Amount,
			BalanceAfter: balance,
		}
		return uc.depositRepo.CreateDepositTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("deposit recorded",
		zap.String("partner_id", input.PartnerID),
		zap.Int64("amount", input.Amount),
		zap.Int64("balance", entry.BalanceAfter),
	)
	return entry, nil
}

func (uc *DefaultPartnerUsecase) ListDeposits(ctx context.Context, partnerID string) ([]*domain.DepositTransaction, error) {
	if _, err := uc.partnerRepo.GetPartnerByID(ctx, partnerID); err != nil {
		return nil, err
	}
	return uc.depositRepo.ListDepositTransactions(ctx, partnerID)
}

// MarkWorking is the presence side effect of a successful claim. Concurrent
// writers to one partner's availability are last-write-wins.
func (uc *DefaultPartnerUsecase) MarkWorking(ctx context.Context, partnerID string) error {
	partner, err := uc.partnerRepo.GetPartnerByID(ctx, partnerID)
	if err != nil {
		return err
	}
	if partner.Availability == domain.AvailabilityWorking {
		return nil
	}
	if err := uc.partnerRepo.UpdateAvailability(ctx, partnerID, domain.AvailabilityWorking); err != nil {
		return err
	}
	uc.emitAvailability(ctx, partner, domain.AvailabilityWorking, partnerID)
	return nil
}

// ReleaseIfIdle moves a working partner without active cases back to waiting.
func (uc *DefaultPartnerUsecase) ReleaseIfIdle(ctx context.Context, partnerID string) (bool, error) {
	var partner *domain.Partner
	released := false
	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		partner, err = uc.partnerRepo.GetPartnerByID(ctx, partnerID)
		if err != nil {
			return err
		}
		if partner.Availability != domain.AvailabilityWorking {
			return nil
		}
		active, err := uc.caseRepo.CountActiveByLeader(ctx, partnerID)
		if err != nil {
			return err
		}
		if active > 0 {
			return nil
		}
		released = true
		return uc.partnerRepo.UpdateAvailability(ctx, partnerID, domain.AvailabilityWaiting)
	})
	if err != nil {
		return false, err
	}

	if released {
		uc.metrics.RecordPresenceRelease()
		uc.emitAvailability(ctx, partner, domain.AvailabilityWaiting, "")
	}
	return released, nil
}

// ReconcilePresence sweeps every working partner. One failing partner does
// not stop the sweep.
func (uc *DefaultPartnerUsecase) ReconcilePresence(ctx context.Context) (int, error) {
	working, err := uc.partnerRepo.ListPartners(ctx, domain.PartnerFilter{Availability: domain.AvailabilityWorking})
	if err != nil {
		return 0, err
	}

	released := 0
	var errs []error
	for _, partner := range working {
		ok, err := uc.ReleaseIfIdle(ctx, partner.UserID)
		if err != nil {
			errs = append(errs, fmt.Errorf("partner %s: %w", partner.UserID, err))
			continue
		}
		if ok {
			released++
		}
	}
	return released, errors.Join(errs...)
}

func (uc *DefaultPartnerUsecase) emitAvailability(ctx context.Context, partner *domain.Partner, to domain.Availability, actorID string) {
	uc.events.Emit(ctx, domain.Event{
		Type:        domain.EventAvailabilityChanged,
		ActorID:     actorID,
		RecipientID: partner.UserID,
		FromStatus:  string(partner.Availability),
		ToStatus:    string(to),
	})
}
