package model

import (
	"strings"
	"time"

	"innkeeper/shared/model"

	"github.com/google/uuid"
)

const (
	TableName  = "invoices"
	EntityName = "invoice"

	FieldID            = "id"
	FieldInvoiceNumber = "invoice_number"
	FieldReservationID = "reservation_id"
	FieldAmountCents   = "amount_cents"
	FieldTaxCents      = "tax_cents"
	FieldTotalCents    = "total_cents"
	FieldDueDate       = "due_date"
	FieldNotes         = "notes"
	FieldPaidAt        = "paid_at"
)

type Invoice struct {
	ID            string     `db:"id"`
	InvoiceNumber string     `db:"invoice_number"`
	ReservationID string     `db:"reservation_id"`
	AmountCents   int64      `db:"amount_cents"`
	TaxCents      int64      `db:"tax_cents"`
	TotalCents    int64      `db:"total_cents"`
	DueDate       time.Time  `db:"due_date"`
	Notes         string     `db:"notes"`
	PaidAt        *time.Time `db:"paid_at"`
	model.Metadata
}

// NewInvoiceNumber generates a human-readable unique invoice reference.
func NewInvoiceNumber() string {
	return "INV-" + strings.ToUpper(uuid.NewString()[:8])
}
