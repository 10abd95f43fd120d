package jobs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/http/render"
	"github.com/MrJamesThe3rd/backoffice/internal/jobs"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Handler struct {
	svc *jobs.Service
}

func NewHandler(svc *jobs.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type jobResponse struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	Key         string          `json:"key"`
	Payload     json.RawMessage `json:"payload"`
	RunAt       time.Time       `json:"run_at"`
	Status      jobs.Status     `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	LastError   string          `json:"last_error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *jobs.Status
	if s := q.Get("status"); s != "" {
		status = new(jobs.Status(s))
	}

	limit := defaultLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxLimit {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}

		limit = n
	}

	list, err := h.svc.List(r.Context(), status, limit)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]jobResponse, len(list))
	for i, j := range list {
		resp[i] = jobResponse{
			ID:          j.ID,
			Kind:        j.Kind,
			Key:         j.Key,
			Payload:     j.Payload,
			RunAt:       j.RunAt,
			Status:      j.Status,
			Attempts:    j.Attempts,
			MaxAttempts: j.MaxAttempts,
			LastError:   j.LastError,
			CreatedAt:   j.CreatedAt,
		}
	}

	render.JSON(w, http.StatusOK, resp)
}
