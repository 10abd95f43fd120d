package automation

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/backoffice/internal/automation"
	"github.com/MrJamesThe3rd/backoffice/internal/http/render"
)

type Handler struct {
	svc *automation.Service
}

func NewHandler(svc *automation.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.tasks)
	r.Post("/{task}", h.run)
}

func (h *Handler) tasks(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, automation.Tasks)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	task, err := automation.ParseTask(chi.URLParam(r, "task"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	q := r.URL.Query()

	var opts automation.Options

	if s := q.Get("dry_run"); s != "" {
		if opts.DryRun, err = strconv.ParseBool(s); err != nil {
			http.Error(w, "dry_run must be a boolean", http.StatusBadRequest)
			return
		}
	}

	if s := q.Get("force"); s != "" {
		if opts.Force, err = strconv.ParseBool(s); err != nil {
			http.Error(w, "force must be a boolean", http.StatusBadRequest)
			return
		}
	}

	if s := q.Get("as_of"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "as_of must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		opts.AsOf = &t
	}

	report, err := h.svc.Run(r.Context(), task, opts)
	if err != nil && report == nil {
		render.Error(w, r, err)
		return
	}

	status := http.StatusOK
	if err != nil {
		status = render.Status(err)
	}

	render.JSON(w, status, report)
}
