package handlers

import (
	"fmt"
	"net/http"

	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/order"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOrderRequest
	if err := h.decode(r, &req, false); err != nil {
		h.badRequest(w, err)
		return
	}
	order, err := h.orders.CreateOrder(r.Context(), &orderdto.CreateOrderInput{
		AgentCode:     req.AgentCode,
		OrderNumber:   req.OrderNumber,
		Amount:        req.Amount,
		ActualPaid:    req.ActualPaid,
		PaymentMethod: req.PaymentMethod,
		Duration:      req.Duration,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.FromOrder(order))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromOrder(order))
}

func (h *Handler) orderAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	var (
		order *domain.Order
		err   error
	)
	switch action := chi.URLParam(r, "action"); action {
	case "confirm-payment":
		var req request.ConfirmPaymentRequest
		if err := h.decode(r, &req, true); err != nil {
			h.badRequest(w, err)
			return
		}
		order, err = h.orders.ConfirmPayment(ctx, &orderdto.ConfirmPaymentInput{
			OrderID:    id,
			ActualPaid: req.ActualPaid,
			PaidAt:     req.PaidAt,
		})
	case "confirm-config":
		var req request.ConfirmConfigRequest
		if err := h.decode(r, &req, true); err != nil {
			h.badRequest(w, err)
			return
		}
		order, err = h.orders.ConfirmConfig(ctx, &orderdto.ConfirmConfigInput{
			OrderID:     id,
			EffectiveAt: req.EffectiveAt,
		})
	case "reject":
		order, err = h.orders.RejectOrder(ctx, id)
	case "cancel":
		order, err = h.orders.CancelOrder(ctx, id)
	case "reminded":
		order, err = h.orders.MarkReminded(ctx, id)
	default:
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("unknown order action %q", action))
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromOrder(order))
}
