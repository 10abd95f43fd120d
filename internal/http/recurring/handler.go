package recurring

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/http/render"
	"github.com/MrJamesThe3rd/backoffice/internal/recurring"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

type Handler struct {
	svc *recurring.Service
}

func NewHandler(svc *recurring.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
}

type ruleResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Type               transaction.Type    `json:"type"`
	Amount             string              `json:"amount"`
	Currency           string              `json:"currency"`
	CategoryID         *uuid.UUID          `json:"category_id,omitempty"`
	PaymentMethodID    *uuid.UUID          `json:"payment_method_id,omitempty"`
	Description        string              `json:"description"`
	Frequency          recurring.Frequency `json:"frequency"`
	Interval           int                 `json:"interval"`
	StartDate          string              `json:"start_date"`
	EndDate            *string             `json:"end_date,omitempty"`
	MaxOccurrences     *int                `json:"max_occurrences,omitempty"`
	IsActive           bool                `json:"is_active"`
	NextDueDate        string              `json:"next_due_date"`
	OccurrencesCreated int                 `json:"occurrences_created"`
	LastProcessedAt    *time.Time          `json:"last_processed_at,omitempty"`
}

func toResponse(r *recurring.Rule) ruleResponse {
	resp := ruleResponse{
		ID:                 r.ID,
		Type:               r.Type,
		Amount:             r.Amount.StringFixed(2),
		Currency:           r.Currency,
		CategoryID:         r.CategoryID,
		PaymentMethodID:    r.PaymentMethodID,
		Description:        r.Description,
		Frequency:          r.Frequency,
		Interval:           r.Interval,
		StartDate:          r.StartDate.Format(time.DateOnly),
		MaxOccurrences:     r.MaxOccurrences,
		IsActive:           r.IsActive,
		NextDueDate:        r.NextDueDate.Format(time.DateOnly),
		OccurrencesCreated: r.OccurrencesCreated,
		LastProcessedAt:    r.LastProcessedAt,
	}

	if r.EndDate != nil {
		resp.EndDate = new(r.EndDate.Format(time.DateOnly))
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.List(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = toResponse(rule)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(rule))
}

type createRuleRequest struct {
	Type            transaction.Type    `json:"type"`
	Amount          decimal.Decimal     `json:"amount"`
	Currency        string              `json:"currency"`
	CategoryID      *uuid.UUID          `json:"category_id,omitempty"`
	PaymentMethodID *uuid.UUID          `json:"payment_method_id,omitempty"`
	Description     string              `json:"description"`
	Frequency       recurring.Frequency `json:"frequency"`
	Interval        int                 `json:"interval"`
	StartDate       string              `json:"start_date"`
	EndDate         *string             `json:"end_date,omitempty"`
	MaxOccurrences  *int                `json:"max_occurrences,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	params := recurring.CreateParams{
		Type:            req.Type,
		Amount:          req.Amount,
		Currency:        req.Currency,
		CategoryID:      req.CategoryID,
		PaymentMethodID: req.PaymentMethodID,
		Description:     req.Description,
		Frequency:       req.Frequency,
		Interval:        req.Interval,
		StartDate:       start,
		MaxOccurrences:  req.MaxOccurrences,
	}

	if params.Interval == 0 {
		params.Interval = 1
	}

	if req.EndDate != nil {
		end, err := time.Parse(time.DateOnly, *req.EndDate)
		if err != nil {
			http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		params.EndDate = &end
	}

	rule, err := h.svc.Create(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(rule))
}
