package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/response"
	agentdto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/agent"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) registerPrimary(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPrimaryRequest
	if err := h.decode(r, &req, false); err != nil {
		h.badRequest(w, err)
		return
	}
	agent, err := h.agents.RegisterPrimary(r.Context(), &agentdto.RegisterPrimaryInput{
		Handle: req.Handle,
		Rate:   req.Rate,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.FromAgent(agent))
}

func (h *Handler) registerSecondary(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterSecondaryRequest
	if err := h.decode(r, &req, false); err != nil {
		h.badRequest(w, err)
		return
	}
	agent, err := h.agents.RegisterSecondary(r.Context(), &agentdto.RegisterSecondaryInput{
		Handle:           req.Handle,
		Rate:             req.Rate,
		RegistrationCode: req.RegistrationCode,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.FromAgent(agent))
}

func (h *Handler) getAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.agents.GetAgent(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromAgent(agent))
}

func (h *Handler) updateRate(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateRateRequest
	if err := h.decode(r, &req, false); err != nil {
		h.badRequest(w, err)
		return
	}
	agent, err := h.agents.UpdateRate(r.Context(), &agentdto.UpdateRateInput{
		AgentCode: chi.URLParam(r, "code"),
		Rate:      *req.Rate,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromAgent(agent))
}

func (h *Handler) linkParent(w http.ResponseWriter, r *http.Request) {
	var req request.LinkParentRequest
	if err := h.decode(r, &req, false); err != nil {
		h.badRequest(w, err)
		return
	}
	agent, err := h.agents.LinkToParent(r.Context(), &agentdto.LinkToParentInput{
		AgentCode:  chi.URLParam(r, "code"),
		ParentCode: req.ParentCode,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromAgent(agent))
}

func (h *Handler) removeAgent(w http.ResponseWriter, r *http.Request) {
	if err := h.agents.Remove(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
