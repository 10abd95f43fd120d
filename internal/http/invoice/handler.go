package invoice

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/http/render"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/send", h.send)
	r.Post("/{id}/cancel", h.cancel)
	r.Post("/{id}/match", h.match)
	r.Post("/{id}/payments", h.recordPayment)
}

type itemResponse struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Total       string `json:"total"`
}

type invoiceResponse struct {
	ID                 uuid.UUID              `json:"id"`
	Number             string                 `json:"number"`
	CustomerID         uuid.UUID              `json:"customer_id"`
	TicketID           *uuid.UUID             `json:"ticket_id,omitempty"`
	Title              string                 `json:"title"`
	Description        string                 `json:"description,omitempty"`
	Notes              string                 `json:"notes,omitempty"`
	Status             invoice.Status         `json:"status"`
	InvoiceDate        string                 `json:"invoice_date"`
	DueDate            *string                `json:"due_date,omitempty"`
	Currency           string                 `json:"currency"`
	Subtotal           string                 `json:"subtotal"`
	TaxRate            string                 `json:"tax_rate"`
	TaxAmount          string                 `json:"tax_amount"`
	DiscountAmount     string                 `json:"discount_amount"`
	TotalAmount        string                 `json:"total_amount"`
	PaidAmount         string                 `json:"paid_amount"`
	Remaining          string                 `json:"remaining"`
	Items              []itemResponse         `json:"items"`
	Reminders          []invoice.SentReminder `json:"reminders,omitempty"`
	ReminderCount      int                    `json:"reminder_count"`
	LastReminderSentAt *time.Time             `json:"last_reminder_sent_at,omitempty"`
	PaidAt             *time.Time             `json:"paid_at,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:                 inv.ID,
		Number:             inv.Number,
		CustomerID:         inv.CustomerID,
		TicketID:           inv.TicketID,
		Title:              inv.Title,
		Description:        inv.Description,
		Notes:              inv.Notes,
		Status:             inv.Status,
		InvoiceDate:        inv.InvoiceDate.Format(time.DateOnly),
		Currency:           inv.Currency,
		Subtotal:           inv.Subtotal.StringFixed(2),
		TaxRate:            inv.TaxRate.StringFixed(2),
		TaxAmount:          inv.TaxAmount.StringFixed(2),
		DiscountAmount:     inv.DiscountAmount.StringFixed(2),
		TotalAmount:        inv.TotalAmount.StringFixed(2),
		PaidAmount:         inv.PaidAmount.StringFixed(2),
		Remaining:          inv.Remaining().StringFixed(2),
		Items:              make([]itemResponse, len(inv.Items)),
		Reminders:          inv.Metadata.Reminders,
		ReminderCount:      inv.ReminderCount,
		LastReminderSentAt: inv.LastReminderSentAt,
		PaidAt:             inv.PaidAt,
		CreatedAt:          inv.CreatedAt,
	}

	if inv.DueDate != nil {
		resp.DueDate = new(inv.DueDate.Format(time.DateOnly))
	}

	for i, it := range inv.Items {
		resp.Items[i] = itemResponse{
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Total:       it.Total.StringFixed(2),
		}
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter invoice.ListFilter

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(invoice.Status(s))
	}

	if s := r.URL.Query().Get("customer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid customer_id", http.StatusBadRequest)
			return
		}

		filter.CustomerID = &id
	}

	invs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]invoiceResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toResponse(inv)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Send(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
}

type matchResponse struct {
	Matched bool            `json:"matched"`
	Invoice invoiceResponse `json:"invoice"`
}

func (h *Handler) match(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	matched, err := h.svc.AutoMatchPayments(r.Context(), inv)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, matchResponse{Matched: matched, Invoice: toResponse(inv)})
}

type paymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id,omitempty"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.RecordPayment(r.Context(), id, req.Amount, req.PaymentMethodID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(inv))
}
