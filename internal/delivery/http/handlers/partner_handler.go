package handlers

import (
	"net/http"

	"github.com/LavaJover/promise-case-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/promise-case-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/promise-case-service/internal/domain"
	partnerdto "github.com/LavaJover/promise-case-service/internal/usecase/dto/partner"
)

func (h *HTTPHandler) handleRegisterPartner(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPartnerRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.partners.RegisterPartner(r.Context(), &partnerdto.RegisterPartnerInput{
		UserID:   req.UserID,
		Name:     req.Name,
		Role:     domain.Role(req.Role),
		Grade:    domain.Grade(req.Grade),
		Region:   req.Region,
		MasterID: req.MasterID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, response.FromPartner(p))
}

func (h *HTTPHandler) handleGetPartner(w http.ResponseWriter, r *http.Request) {
	p, err := h.partners.GetPartner(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromPartner(p))
}

func (h *HTTPHandler) handleGetUpline(w http.ResponseWriter, r *http.Request) {
	p, err := h.partners.GetUpline(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromPartner(p))
}

func (h *HTTPHandler) handleListSubordinates(w http.ResponseWriter, r *http.Request) {
	partners, err := h.partners.ListSubordinates(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromPartners(partners))
}

func (h *HTTPHandler) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	var req request.AvailabilityRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.partners.SetAvailability(r.Context(), pathID(r), domain.Availability(req.Availability))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromPartner(p))
}

func (h *HTTPHandler) handleChangeApproval(w http.ResponseWriter, r *http.Request) {
	var req request.ApprovalRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.partners.ChangeApprovalStatus(r.Context(), pathID(r), domain.ApprovalStatus(req.Status))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromPartner(p))
}

func (h *HTTPHandler) handleChangeGrade(w http.ResponseWriter, r *http.Request) {
	var req request.GradeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.partners.ChangeGrade(r.Context(), pathID(r), domain.Grade(req.Grade))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromPartner(p))
}

func (h *HTTPHandler) handleApproveApplicant(w http.ResponseWriter, r *http.Request) {
	var req request.ApproveApplicantRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.partners.ApproveApplicant(r.Context(), req.MasterID, pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromPartner(p))
}

func (h *HTTPHandler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req request.DepositRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	entry, err := h.partners.Deposit(r.Context(), &partnerdto.DepositInput{
		PartnerID: pathID(r),
		Amount:    req.Amount,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, response.FromDeposit(entry))
}

func (h *HTTPHandler) handleListDeposits(w http.ResponseWriter, r *http.Request) {
	rows, err := h.partners.ListDeposits(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromDeposits(rows))
}
