package importcsv

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/http/render"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID             uuid.UUID          `json:"id"`
	Amount         string             `json:"amount"`
	Currency       string             `json:"currency"`
	Type           transaction.Type   `json:"type"`
	Status         transaction.Status `json:"status"`
	Description    string             `json:"description"`
	RawDescription string             `json:"raw_description,omitempty"`
	Date           string             `json:"date"`
	CreatedAt      time.Time          `json:"created_at"`
}

type importSuccessResponse struct {
	Format       string                `json:"format,omitempty"`
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	Amount          decimal.Decimal    `json:"amount"`
	Currency        string             `json:"currency"`
	Type            transaction.Type   `json:"type"`
	Status          transaction.Status `json:"status,omitempty"`
	Description     string             `json:"description"`
	RawDescription  string             `json:"raw_description"`
	Date            time.Time          `json:"date"`
	CategoryID      *uuid.UUID         `json:"category_id,omitempty"`
	PaymentMethodID *uuid.UUID         `json:"payment_method_id,omitempty"`
	ReferenceNumber *string            `json:"reference_number,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	Format    string            `json:"format"`
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), file)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			Format:    result.Format,
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		render.JSON(w, http.StatusConflict, resp)

		return
	}

	resp := toSuccessResponse(result.Imported)
	resp.Format = result.Format

	render.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		status := p.Status
		if status == "" {
			status = transaction.StatusCompleted
		}

		params = append(params, transaction.CreateParams{
			Amount:          p.Amount,
			Currency:        p.Currency,
			Type:            p.Type,
			Status:          status,
			Description:     p.Description,
			RawDescription:  p.RawDescription,
			Date:            p.Date,
			CategoryID:      p.CategoryID,
			PaymentMethodID: p.PaymentMethodID,
			ReferenceNumber: p.ReferenceNumber,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Amount:         tx.Amount.StringFixed(2),
		Currency:       tx.Currency,
		Type:           tx.Type,
		Status:         tx.Status,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date.Format(time.DateOnly),
		CreatedAt:      tx.CreatedAt,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Amount:          p.Amount,
		Currency:        p.Currency,
		Type:            p.Type,
		Status:          p.Status,
		Description:     p.Description,
		RawDescription:  p.RawDescription,
		Date:            p.Date,
		CategoryID:      p.CategoryID,
		PaymentMethodID: p.PaymentMethodID,
		ReferenceNumber: p.ReferenceNumber,
	}
}
