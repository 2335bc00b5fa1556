package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bancowarmi/warmi-api/internal/models"
	"github.com/bancowarmi/warmi-api/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Client-facing messages. These are part of the wire contract the frontend
// matches on, so they stay in Spanish and never carry internal error text.
const (
	msgMemberNotFound  = "Socio no encontrado en el ciclo actual."
	msgFieldsRequired  = "Usuario y contraseña son requeridos."
	msgBadCredentials  = "Usuario o contraseña incorrectos."
	msgInternalError   = "Error interno del servidor."
	msgLivenessMessage = "¡La API de Banco Warmi está funcionando!"
)

type Handler struct {
	svc          *service.Service
	log          *logrus.Logger
	queryTimeout time.Duration
}

func NewHandler(svc *service.Service, log *logrus.Logger, queryTimeout time.Duration) *Handler {
	return &Handler{svc: svc, log: log, queryTimeout: queryTimeout}
}

// Root is the plain-text liveness check
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(msgLivenessMessage))
}

// Dashboard serves the aggregated member summary
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberIDVar(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": msgMemberNotFound})
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	dashboard, err := h.svc.Dashboard(ctx, memberID)
	if errors.Is(err, service.ErrMembershipNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": msgMemberNotFound})
		return
	}
	if err != nil {
		h.log.Errorf("Dashboard query failed for member %d: %v", memberID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": msgInternalError})
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// Fines serves the full fine history. A member without a membership gets a
// zeroed payload, not an error.
func (h *Handler) Fines(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberIDVar(r)
	if err != nil {
		writeJSON(w, http.StatusOK, &models.FineList{FinesList: []models.FineEntry{}})
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	fines, err := h.svc.Fines(ctx, memberID)
	if err != nil {
		h.log.Errorf("Fines query failed for member %d: %v", memberID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": msgInternalError})
		return
	}
	writeJSON(w, http.StatusOK, fines)
}

// Login handles member authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.LoginResponse{Success: false, Message: msgFieldsRequired})
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	socioID, ok, err := h.svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.log.Errorf("Login query failed for %s: %v", req.Username, err)
		writeJSON(w, http.StatusInternalServerError, models.LoginResponse{Success: false, Message: msgInternalError})
		return
	}
	if !ok {
		// Unknown user and wrong password share one body on purpose.
		writeJSON(w, http.StatusOK, models.LoginResponse{Success: false, Message: msgBadCredentials})
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Success: true, SocioID: socioID})
}

// requestContext bounds every query of a request with the pool/query
// timeout, so an exhausted pool surfaces as a 500 instead of hanging.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.queryTimeout)
}

func memberIDVar(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["socioId"], 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
