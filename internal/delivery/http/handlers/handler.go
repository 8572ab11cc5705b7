package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/LavaJover/promise-case-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/usecase"
	"github.com/LavaJover/promise-case-service/internal/usecase/caseflow"
	"github.com/LavaJover/promise-case-service/internal/usecase/settlement"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ActorHeader carries the id of the partner performing the request. The
// presentation layer has already authenticated it.
const ActorHeader = "X-Actor-ID"

type HTTPHandler struct {
	cases       caseflow.CaseUsecase
	settlements settlement.SettlementUsecase
	partners    usecase.PartnerUsecase
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewHTTPHandler(
	cases caseflow.CaseUsecase,
	settlements settlement.SettlementUsecase,
	partners usecase.PartnerUsecase,
	logger *zap.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		cases:       cases,
		settlements: settlements,
		partners:    partners,
		validate:    validator.New(),
		logger:      logger,
	}
}

func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	caseRouter := api.PathPrefix("/cases").Subrouter()
	caseRouter.HandleFunc("", h.handleCreateCase).Methods(http.MethodPost)
	caseRouter.HandleFunc("", h.handleListCases).Methods(http.MethodGet)
	caseRouter.HandleFunc("/claimable", h.handleListClaimable).Methods(http.MethodGet)
	caseRouter.HandleFunc("/{id}", h.handleGetCase).Methods(http.MethodGet)
	caseRouter.HandleFunc("/{id}/claim", h.handleClaim).Methods(http.MethodPost)
	caseRouter.HandleFunc("/{id}/assign", h.handleAssign).Methods(http.MethodPost)
	caseRouter.HandleFunc("/{id}/advance", h.handleAdvance).Methods(http.MethodPost)
	caseRouter.HandleFunc("/{id}/cancel", h.handleCancel).Methods(http.MethodPost)
	caseRouter.HandleFunc("/{id}/price", h.handleFinalizePrice).Methods(http.MethodPost)
	caseRouter.HandleFunc("/{id}/rating", h.handleRateCase).Methods(http.MethodPost)
	caseRouter.HandleFunc("/{id}/settlements", h.handleListCaseSettlements).Methods(http.MethodGet)
	caseRouter.HandleFunc("/{id}/refund", h.handleIssueRefund).Methods(http.MethodPost)

	settlementRouter := api.PathPrefix("/settlements").Subrouter()
	settlementRouter.HandleFunc("", h.handleListSettlements).Methods(http.MethodGet)
	settlementRouter.HandleFunc("/summary", h.handleSettlementSummary).Methods(http.MethodGet)
	settlementRouter.HandleFunc("/{id}", h.handleGetSettlement).Methods(http.MethodGet)
	settlementRouter.HandleFunc("/{id}/payment", h.handleRecordPayment).Methods(http.MethodPost)
	settlementRouter.HandleFunc("/{id}/amount", h.handleOverrideAmount).Methods(http.MethodPost)

	partnerRouter := api.PathPrefix("/partners").Subrouter()
	partnerRouter.HandleFunc("", h.handleRegisterPartner).Methods(http.MethodPost)
	partnerRouter.HandleFunc("/{id}", h.handleGetPartner).Methods(http.MethodGet)
	partnerRouter.HandleFunc("/{id}/upline", h.handleGetUpline).Methods(http.MethodGet)
	partnerRouter.HandleFunc("/{id}/subordinates", h.handleListSubordinates).Methods(http.MethodGet)
	partnerRouter.HandleFunc("/{id}/availability", h.handleSetAvailability).Methods(http.MethodPut)
	partnerRouter.HandleFunc("/{id}/approval", h.handleChangeApproval).Methods(http.MethodPut)
	partnerRouter.HandleFunc("/{id}/grade", h.handleChangeGrade).Methods(http.MethodPut)
	partnerRouter.HandleFunc("/{id}/approve", h.handleApproveApplicant).Methods(http.MethodPost)
	partnerRouter.HandleFunc("/{id}/deposits", h.handleDeposit).Methods(http.MethodPost)
	partnerRouter.HandleFunc("/{id}/deposits", h.handleListDeposits).Methods(http.MethodGet)
}

// decode reads and validates a JSON body into dst.
func (h *HTTPHandler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed body: %v", domain.ErrInvalidArgument, err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

func actorID(r *http.Request) (string, error) {
	actor := r.Header.Get(ActorHeader)
	if actor == "" {
		return "", fmt.Errorf("%w: %s header is required", domain.ErrInvalidArgument, ActorHeader)
	}
	return actor, nil
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.String("code", code), zap.Error(err))
	}
	h.writeJSON(w, status, response.ErrorResponse{Error: err.Error(), Code: code})
}

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrAlreadyClaimed, http.StatusConflict, "already_claimed"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrAlreadyFinal, http.StatusConflict, "already_final"},
	{domain.ErrHasActiveCases, http.StatusConflict, "has_active_cases"},
	{domain.ErrInsufficientDeposit, http.StatusConflict, "insufficient_deposit"},
	{domain.ErrPayoutWindowClosed, http.StatusConflict, "payout_window_closed"},
	{domain.ErrIllegalTransition, http.StatusUnprocessableEntity, "illegal_transition"},
	{domain.ErrInvalidArgument, http.StatusUnprocessableEntity, "invalid_argument"},
	{domain.ErrNotEligible, http.StatusForbidden, "not_eligible"},
	{domain.ErrNotApproved, http.StatusForbidden, "not_approved"},
	{domain.ErrNotUpline, http.StatusForbidden, "not_upline"},
	{domain.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{domain.ErrConfirmationRequired, http.StatusPreconditionRequired, "confirmation_required"},
	{domain.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
}

func statusFor(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal"
}
