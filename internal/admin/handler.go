// Package admin serves the staff-side endpoints: expert and admin login
// against configured shared passwords, and the dashboard metrics aggregated
// from the two record families.
package admin

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/autofault/service-diagnostics-go/internal/account"
	accountentity "github.com/autofault/service-diagnostics-go/internal/account/entity"
	"github.com/autofault/service-diagnostics-go/internal/request"
	requestentity "github.com/autofault/service-diagnostics-go/internal/request/entity"
	"github.com/autofault/service-diagnostics-go/internal/token"
)

type Config struct {
	ExpertPassword string
	AdminPassword  string
}

// ConfigFromEnv reads the staff passwords from env vars. Unset passwords
// disable the corresponding login entirely.
func ConfigFromEnv() Config {
	return Config{
		ExpertPassword: os.Getenv("EXPERT_PASSWORD"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}
}

// Handler exposes staff login and dashboard metrics.
type Handler struct {
	cfg      Config
	requests *request.Service
	accounts *account.Service
	issuer   *token.Issuer
	logger   *zap.SugaredLogger
}

func NewHandler(cfg Config, requests *request.Service, accounts *account.Service, issuer *token.Issuer, logger *zap.SugaredLogger) *Handler {
	return &Handler{cfg: cfg, requests: requests, accounts: accounts, issuer: issuer, logger: logger}
}

// LoginRequest is the shared-password staff login payload.
type LoginRequest struct {
	Password string `json:"password"`
}

func (h *Handler) staffLogin(w http.ResponseWriter, r *http.Request, expected, role string) {
	var in LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if expected == "" ||
		subtle.ConstantTimeCompare([]byte(in.Password), []byte(expected)) != 1 {
		h.logger.Debugw("staff login rejected", "role", role)
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect password"})
		return
	}
	tok, err := h.issuer.Issue(role, role)
	if err != nil {
		h.logger.Errorw("staff token issue failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "operation failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (h *Handler) ExpertLogin(w http.ResponseWriter, r *http.Request) {
	h.staffLogin(w, r, h.cfg.ExpertPassword, token.RoleExpert)
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.staffLogin(w, r, h.cfg.AdminPassword, token.RoleAdmin)
}

// Metrics is the admin dashboard aggregate.
type Metrics struct {
	Requests struct {
		Total     int `json:"total"`
		Pending   int `json:"pending"`
		Completed int `json:"completed"`
	} `json:"requests"`
	Accounts struct {
		Total  int `json:"total"`
		Active int `json:"active"`
		Paused int `json:"paused"`
	} `json:"accounts"`
}

func (h *Handler) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	var m Metrics
	for _, req := range h.requests.All() {
		m.Requests.Total++
		switch req.Status {
		case requestentity.StatusPending:
			m.Requests.Pending++
		case requestentity.StatusCompleted:
			m.Requests.Completed++
		}
	}
	for _, acct := range h.accounts.All() {
		m.Accounts.Total++
		switch acct.Status {
		case accountentity.StatusActive:
			m.Accounts.Active++
		case accountentity.StatusPaused:
			m.Accounts.Paused++
		}
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
