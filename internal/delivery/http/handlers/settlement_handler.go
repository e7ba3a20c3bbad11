package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/settlement"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getSettlement(w http.ResponseWriter, r *http.Request) {
	window, err := domain.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		h.badRequest(w, err)
		return
	}
	s, err := h.settlement.GetAgentSettlement(r.Context(), chi.URLParam(r, "code"), window)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromSettlement(s))
}

func (h *Handler) computeCommission(w http.ResponseWriter, r *http.Request) {
	var req request.ComputeCommissionRequest
	if err := h.decode(r, &req, false); err != nil {
		h.badRequest(w, err)
		return
	}
	res, err := h.settlement.ComputeOrderCommission(r.Context(), settlement.OrderCommissionInput{
		OrderID:       req.OrderID,
		AgentCode:     req.AgentCode,
		Amount:        req.Amount,
		ActualPaid:    req.ActualPaid,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromCommission(res, h.currency))
}
