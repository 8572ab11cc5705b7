package handlers

import (
	"net/http"

	"github.com/LavaJover/promise-case-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/promise-case-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/promise-case-service/internal/domain"
	settlementdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/settlement"
)

func (h *HTTPHandler) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := &settlementdto.ListSettlementsInput{
		CaseID:      q.Get("case_id"),
		RecipientID: q.Get("recipient_id"),
		Type:        domain.SettlementType(q.Get("type")),
	}
	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseSettlementStatus(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		input.Status = status
	}

	rows, err := h.settlements.ListSettlements(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromSettlements(rows))
}

func (h *HTTPHandler) handleSettlementSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.settlements.Summary(r.Context(), r.URL.Query().Get("recipient_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.SettlementSummaryResponse{
		PendingPayouts:     summary.PendingPayouts,
		PendingRemittances: summary.PendingRemittances,
		Completed:          summary.Completed,
		Paid:               summary.Paid,
	})
}

func (h *HTTPHandler) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	s, err := h.settlements.GetSettlement(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromSettlement(s))
}

func (h *HTTPHandler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req request.RecordPaymentRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	s, err := h.settlements.RecordSettlementPayment(r.Context(), &settlementdto.RecordPaymentInput{
		SettlementID: pathID(r),
		Status:       domain.SettlementStatus(req.Status),
		Memo:         req.Memo,
		FromDeposit:  req.FromDeposit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromSettlement(s))
}

func (h *HTTPHandler) handleOverrideAmount(w http.ResponseWriter, r *http.Request) {
	var req request.OverrideAmountRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	s, err := h.settlements.OverrideSettlementAmount(r.Context(), &settlementdto.OverrideAmountInput{
		SettlementID: pathID(r),
		Amount:       req.Amount,
		Memo:         req.Memo,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromSettlement(s))
}
