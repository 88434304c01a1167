package dto

import (
	"time"

	invoiceModel "innkeeper/internal/domains/invoice/model"
	paymentModel "innkeeper/internal/domains/payment/model"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateInvoiceRequest struct {
	ReservationID string   `json:"reservation_id" validate:"required,uuid"`
	AmountCents   int64    `json:"amount_cents"   validate:"required,min=1"`
	TaxPercent    *float64 `json:"tax_percent"    validate:"omitempty,min=0,max=100"`
	DueDate       string   `json:"due_date"       validate:"omitempty"`
	Notes         string   `json:"notes"          validate:"omitempty,max=500"`
}

// ParseDueDate returns the explicit due date or zero when none was given.
func (c *CreateInvoiceRequest) ParseDueDate() (time.Time, error) {
	if c.DueDate == constant.Empty {
		return time.Time{}, nil
	}

	dueDate, err := timezone.Parse(constant.DateOnlyFormat, c.DueDate)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("invalid due date") // nolint:wrapcheck
	}

	return dueDate, nil
}

func (c *CreateInvoiceRequest) ToModel(user string, taxCents int64, dueDate time.Time) invoiceModel.Invoice {
	return invoiceModel.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: invoiceModel.NewInvoiceNumber(),
		ReservationID: c.ReservationID,
		AmountCents:   c.AmountCents,
		TaxCents:      taxCents,
		TotalCents:    c.AmountCents + taxCents,
		DueDate:       dueDate,
		Notes:         c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type RecordPaymentRequest struct {
	AmountCents   int64  `json:"amount_cents"   validate:"required,min=1"`
	Method        string `json:"method"         validate:"required,oneof=cash credit_card bank_transfer online"`
	TransactionID string `json:"transaction_id" validate:"omitempty,max=100"`
	Notes         string `json:"notes"          validate:"omitempty,max=500"`
}

func (r *RecordPaymentRequest) ToModel(user, invoiceID string) paymentModel.Payment {
	return paymentModel.Payment{
		ID:            uuid.NewString(),
		InvoiceID:     invoiceID,
		AmountCents:   r.AmountCents,
		Method:        r.Method,
		TransactionID: r.TransactionID,
		Notes:         r.Notes,
		PaidAt:        timezone.Now(),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type RefundPaymentRequest struct {
	Reason      string `json:"reason"       validate:"required,max=500"`
	AmountCents *int64 `json:"amount_cents" validate:"omitempty,min=1"`
}

type PaymentResponse struct {
	ID            string  `json:"id"`
	InvoiceID     string  `json:"invoice_id"`
	AmountCents   int64   `json:"amount_cents"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transaction_id"`
	Refunded      bool    `json:"refunded"`
	RefundReason  *string `json:"refund_reason"`
	RefundOf      *string `json:"refund_of"`
	Notes         string  `json:"notes"`
	PaidAt        string  `json:"paid_at"`
	gDto.Metadata
}

func (p *PaymentResponse) FromModel(mod paymentModel.Payment) {
	p.ID = mod.ID
	p.InvoiceID = mod.InvoiceID
	p.AmountCents = mod.AmountCents
	p.Method = mod.Method
	p.TransactionID = mod.TransactionID
	p.Refunded = mod.Refunded
	p.RefundReason = mod.RefundReason
	p.RefundOf = mod.RefundOf
	p.Notes = mod.Notes
	p.PaidAt = timezone.Format(mod.PaidAt, constant.DateFormat)
	p.Metadata.FromModel(mod.Metadata)
}

type InvoiceResponse struct {
	ID            string            `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	ReservationID string            `json:"reservation_id"`
	AmountCents   int64             `json:"amount_cents"`
	TaxCents      int64             `json:"tax_cents"`
	TotalCents    int64             `json:"total_cents"`
	NetPaidCents  int64             `json:"net_paid_cents"`
	BalanceCents  int64             `json:"balance_cents"`
	Status        string            `json:"status"`
	DueDate       string            `json:"due_date"`
	Notes         string            `json:"notes"`
	PaidAt        *string           `json:"paid_at"`
	Payments      []PaymentResponse `json:"payments"`
	gDto.Metadata
}

func (r *InvoiceResponse) FromModel(mod invoiceModel.Invoice, ledger []paymentModel.Payment) {
	r.ID = mod.ID
	r.InvoiceNumber = mod.InvoiceNumber
	r.ReservationID = mod.ReservationID
	r.AmountCents = mod.AmountCents
	r.TaxCents = mod.TaxCents
	r.TotalCents = mod.TotalCents
	r.NetPaidCents = paymentModel.NetPaid(ledger)
	r.BalanceCents = mod.TotalCents - r.NetPaidCents
	r.Status = paymentModel.DeriveStatus(mod.TotalCents, ledger)
	r.DueDate = timezone.Format(mod.DueDate, constant.DateOnlyFormat)
	r.Notes = mod.Notes

	if mod.PaidAt != nil {
		paidAt := timezone.Format(*mod.PaidAt, constant.DateFormat)
		r.PaidAt = &paidAt
	}

	r.Payments = make([]PaymentResponse, len(ledger))
	for i, payment := range ledger {
		r.Payments[i].FromModel(payment)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetInvoicesResponse) FromModels(models []invoiceModel.Invoice, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Invoices = make([]InvoiceResponse, len(models))
	for i, mod := range models {
		r.Invoices[i].FromModel(mod, nil)

		// Listings carry no ledger; fall back to the paid_at stamp.
		if mod.PaidAt != nil {
			r.Invoices[i].Status = paymentModel.StatusPaid
			r.Invoices[i].NetPaidCents = mod.TotalCents
			r.Invoices[i].BalanceCents = 0
		}
	}
}
