package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

type sourceResponse struct {
	Type transaction.SourceType `json:"type"`
	ID   uuid.UUID              `json:"id"`
}

type transactionResponse struct {
	ID              uuid.UUID            `json:"id"`
	Amount          string               `json:"amount"`
	Currency        string               `json:"currency"`
	Type            transaction.Type     `json:"type"`
	Status          transaction.Status   `json:"status"`
	Description     string               `json:"description"`
	RawDescription  string               `json:"raw_description,omitempty"`
	Date            string               `json:"date"`
	CategoryID      *uuid.UUID           `json:"category_id,omitempty"`
	PaymentMethodID *uuid.UUID           `json:"payment_method_id,omitempty"`
	Source          *sourceResponse      `json:"source,omitempty"`
	InvoiceID       *uuid.UUID           `json:"invoice_id,omitempty"`
	ReferenceNumber *string              `json:"reference_number,omitempty"`
	Metadata        transaction.Metadata `json:"metadata,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       *time.Time           `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:              tx.ID,
		Amount:          tx.Amount.StringFixed(2),
		Currency:        tx.Currency,
		Type:            tx.Type,
		Status:          tx.Status,
		Description:     tx.Description,
		RawDescription:  tx.RawDescription,
		Date:            tx.Date.Format(time.DateOnly),
		CategoryID:      tx.CategoryID,
		PaymentMethodID: tx.PaymentMethodID,
		InvoiceID:       tx.InvoiceID,
		ReferenceNumber: tx.ReferenceNumber,
		Metadata:        tx.Metadata,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}

	if tx.Source != nil {
		resp.Source = &sourceResponse{Type: tx.Source.Type, ID: tx.Source.ID}
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
