package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/LavaJover/promise-case-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/promise-case-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/promise-case-service/internal/domain"
	casedto "github.com/LavaJover/promise-case-service/internal/usecase/dto/case"
	settlementdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/settlement"
)

func (h *HTTPHandler) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCaseRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.cases.CreateCase(r.Context(), &casedto.CreateCaseInput{
		CustomerID:  req.CustomerID,
		Location:    req.Location,
		PackageName: req.PackageName,
		Region:      req.Region,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, response.FromCase(c))
}

// handleListCases filters by ?status=a,b&region=&team_leader_id=&customer_id=&limit=.
func (h *HTTPHandler) handleListCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := &casedto.ListCasesInput{
		Region:       q.Get("region"),
		TeamLeaderID: q.Get("team_leader_id"),
		CustomerID:   q.Get("customer_id"),
	}
	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status, err := domain.ParseCaseStatus(strings.TrimSpace(s))
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			input.Statuses = append(input.Statuses, status)
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(w, r, domain.ErrInvalidArgument)
			return
		}
		input.Limit = limit
	}

	cases, err := h.cases.ListCases(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromCases(cases))
}

func (h *HTTPHandler) handleListClaimable(w http.ResponseWriter, r *http.Request) {
	cases, err := h.cases.ListClaimable(r.Context(), r.URL.Query().Get("region"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromCases(cases))
}

func (h *HTTPHandler) handleGetCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.cases.GetCase(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromCase(c))
}

func (h *HTTPHandler) handleClaim(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req request.ClaimRequest
	if r.ContentLength != 0 {
		if err := h.decode(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	c, err := h.cases.Claim(r.Context(), &casedto.ClaimInput{
		CaseID:         pathID(r),
		ActorID:        actor,
		ConfirmOffDuty: req.ConfirmOffDuty,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromCase(c))
}

func (h *HTTPHandler) handleAssign(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req request.AssignRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.cases.AssignTo(r.Context(), &casedto.AssignInput{
		CaseID:        pathID(r),
		MasterID:      actor,
		SubordinateID: req.SubordinateID,
		ConfirmBusy:   req.ConfirmBusy,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromCase(c))
}

func (h *HTTPHandler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req request.AdvanceRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	expected, err := domain.ParseCaseStatus(req.ExpectedStatus)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	target, err := domain.ParseCaseStatus(req.TargetStatus)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.cases.Advance(r.Context(), &casedto.AdvanceInput{
		CaseID:         pathID(r),
		ActorID:        actor,
		ExpectedStatus: expected,
		TargetStatus:   target,
		Confirm:        req.Confirm,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromCase(c))
}

func (h *HTTPHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.cases.CancelClaim(r.Context(), pathID(r), actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromCase(c))
}

func (h *HTTPHandler) handleFinalizePrice(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req request.FinalizePriceRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.cases.FinalizePrice(r.Context(), &casedto.FinalizePriceInput{
		CaseID:           pathID(r),
		ActorID:          actor,
		ExpectedStatus:   domain.CaseStatus(req.ExpectedStatus),
		FinalPrice:       req.FinalPrice,
		CommissionAmount: req.CommissionAmount,
		PackageName:      req.PackageName,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromCase(c))
}

func (h *HTTPHandler) handleRateCase(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req request.RateCaseRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.cases.RateCase(r.Context(), &casedto.RateCaseInput{
		CaseID:  pathID(r),
		ActorID: actor,
		Score:   req.Score,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromCase(c))
}

func (h *HTTPHandler) handleListCaseSettlements(w http.ResponseWriter, r *http.Request) {
	caseID := pathID(r)
	if _, err := h.cases.GetCase(r.Context(), caseID); err != nil {
		h.writeError(w, r, err)
		return
	}
	rows, err := h.settlements.ListSettlements(r.Context(), &settlementdto.ListSettlementsInput{CaseID: caseID})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromSettlements(rows))
}

func (h *HTTPHandler) handleIssueRefund(w http.ResponseWriter, r *http.Request) {
	var req request.RefundRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	refund, err := h.settlements.IssueRefund(r.Context(), &settlementdto.IssueRefundInput{
		CaseID: pathID(r),
		Amount: req.Amount,
		Memo:   req.Memo,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, response.FromSettlement(refund))
}
