package model

import (
	"time"

	"innkeeper/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldInvoiceID     = "invoice_id"
	FieldAmountCents   = "amount_cents"
	FieldMethod        = "method"
	FieldTransactionID = "transaction_id"
	FieldRefunded      = "refunded"
	FieldRefundReason  = "refund_reason"
	FieldRefundOf      = "refund_of"
	FieldPaidAt        = "paid_at"
	FieldNotes         = "notes"
)

const (
	MethodCash         = "cash"
	MethodCreditCard   = "credit_card"
	MethodBankTransfer = "bank_transfer"
	MethodOnline       = "online"
)

const (
	StatusPaid          = "paid"
	StatusPartiallyPaid = "partially_paid"
	StatusPending       = "pending"
)

// Payment is one row of an append-only ledger. Refunds are negative rows
// pointing at the original via RefundOf; rows are never mutated beyond the
// refunded flag on the original.
type Payment struct {
	ID            string    `db:"id"`
	InvoiceID     string    `db:"invoice_id"`
	AmountCents   int64     `db:"amount_cents"`
	Method        string    `db:"method"`
	TransactionID string    `db:"transaction_id"`
	Refunded      bool      `db:"refunded"`
	RefundReason  *string   `db:"refund_reason"`
	RefundOf      *string   `db:"refund_of"`
	Notes         string    `db:"notes"`
	PaidAt        time.Time `db:"paid_at"`
	model.Metadata
}

// IsRefund reports whether the row is a refund entry rather than a charge.
func (p *Payment) IsRefund() bool {
	return p.RefundOf != nil
}

// NetPaid sums the ledger: positive charges plus negative refund rows.
func NetPaid(ledger []Payment) int64 {
	var net int64
	for i := range ledger {
		net += ledger[i].AmountCents
	}

	return net
}

// DeriveStatus computes the invoice payment status from its ledger. The
// status is never stored.
func DeriveStatus(totalCents int64, ledger []Payment) string {
	net := NetPaid(ledger)

	switch {
	case net >= totalCents && totalCents > 0:
		return StatusPaid
	case net > 0:
		return StatusPartiallyPaid
	default:
		return StatusPending
	}
}
