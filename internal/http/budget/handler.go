package budget

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/budget"
	"github.com/MrJamesThe3rd/backoffice/internal/http/render"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/evaluate", h.evaluate)
}

type budgetResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	PeriodType  budget.PeriodType `json:"period_type"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	TotalAmount string            `json:"total_amount"`
	Status      budget.Status     `json:"status"`
}

type categoryResponse struct {
	CategoryID      uuid.UUID         `json:"category_id"`
	CategoryName    string            `json:"category_name"`
	AllocatedAmount string            `json:"allocated_amount"`
	SpentAmount     string            `json:"spent_amount"`
	RemainingAmount string            `json:"remaining_amount"`
	PercentageUsed  string            `json:"percentage_used"`
	AlertAt80       bool              `json:"alert_at_80_percent"`
	AlertAt100      bool              `json:"alert_at_100_percent"`
	LastAlertSentAt *time.Time        `json:"last_alert_sent_at,omitempty"`
	LastAlertType   *budget.AlertType `json:"last_alert_type,omitempty"`
}

type budgetDetailResponse struct {
	budgetResponse
	Categories []categoryResponse `json:"categories"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		Name:        b.Name,
		PeriodType:  b.PeriodType,
		StartDate:   b.StartDate.Format(time.DateOnly),
		EndDate:     b.EndDate.Format(time.DateOnly),
		TotalAmount: b.TotalAmount.StringFixed(2),
		Status:      b.Status,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.svc.List(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	cats, err := h.svc.Categories(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := budgetDetailResponse{budgetResponse: toResponse(b), Categories: make([]categoryResponse, len(cats))}
	for i, c := range cats {
		resp.Categories[i] = categoryResponse{
			CategoryID:      c.CategoryID,
			CategoryName:    c.CategoryName,
			AllocatedAmount: c.AllocatedAmount.StringFixed(2),
			SpentAmount:     c.SpentAmount.StringFixed(2),
			RemainingAmount: c.Remaining().StringFixed(2),
			PercentageUsed:  c.PercentageUsed().StringFixed(2),
			AlertAt80:       c.AlertAt80,
			AlertAt100:      c.AlertAt100,
			LastAlertSentAt: c.LastAlertSentAt,
			LastAlertType:   c.LastAlertType,
		}
	}

	render.JSON(w, http.StatusOK, resp)
}

type evaluateResponse struct {
	DryRun bool           `json:"dry_run"`
	Alerts []budget.Alert `json:"alerts"`
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	evaluate := h.svc.Evaluate
	if dryRun {
		evaluate = h.svc.Preview
	}

	alerts, err := evaluate(r.Context(), b)
	if err != nil && len(alerts) == 0 {
		render.Error(w, r, err)
		return
	}

	if alerts == nil {
		alerts = []budget.Alert{}
	}

	render.JSON(w, http.StatusOK, evaluateResponse{DryRun: dryRun, Alerts: alerts})
}
