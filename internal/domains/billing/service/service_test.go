package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeeper/config"
	"innkeeper/infras/metrics"
	"innkeeper/infras/otel/mocks"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/billing/model/dto"
	"innkeeper/internal/domains/billing/service"
	invoiceMocks "innkeeper/internal/domains/invoice/mocks"
	invoiceModel "innkeeper/internal/domains/invoice/model"
	paymentMocks "innkeeper/internal/domains/payment/mocks"
	paymentModel "innkeeper/internal/domains/payment/model"
	reservationMocks "innkeeper/internal/domains/reservation/mocks"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"
)

// stubCache always misses and swallows writes so the async cache goroutines
// never touch the mock controller.
type stubCache struct{}

func (stubCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (stubCache) Get(_ context.Context, _ string, _ any) error         { return cache.Nil }
func (stubCache) Delete(_ context.Context, _ string) error             { return nil }
func (stubCache) Clear(_ context.Context, _ string) error              { return nil }

func TestTaxCents(t *testing.T) {
	tests := []struct {
		name        string
		amountCents int64
		percent     float64
		want        int64
	}{
		{name: "zero percent", amountCents: 10000, percent: 0, want: 0},
		{name: "whole percent", amountCents: 10000, percent: 10, want: 1000},
		{name: "rounds half up", amountCents: 10005, percent: 10, want: 1001},
		{name: "rounds down below half", amountCents: 10004, percent: 10, want: 1000},
		{name: "fractional percent", amountCents: 99999, percent: 7.5, want: 7500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.TaxCents(tt.amountCents, tt.percent))
		})
	}
}

func TestBillingService_CreateInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoiceRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockReservationRepo := reservationMocks.NewMockReservation(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Billing.DefaultTaxPercent = 10
	cfg.Billing.InvoiceDueDays = 14

	svc := service.New(mockInvoiceRepo, mockPaymentRepo, mockReservationRepo, nil, cfg, stubCache{}, mockOtel, metrics.Get())

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id-1")

	tests := []struct {
		name      string
		req       dto.CreateInvoiceRequest
		setupMock func()
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.InvoiceResponse)
	}{
		{
			name: "successful invoice with default tax",
			req: dto.CreateInvoiceRequest{
				ReservationID: "reservation-id-1",
				AmountCents:   30000,
			},
			setupMock: func() {
				mockReservationRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockInvoiceRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, invoice invoiceModel.Invoice) error {
						assert.Equal(t, int64(30000), invoice.AmountCents)
						assert.Equal(t, int64(3000), invoice.TaxCents)
						assert.Equal(t, int64(33000), invoice.TotalCents)
						assert.False(t, invoice.DueDate.IsZero())

						return nil
					})
			},
			check: func(t *testing.T, res dto.InvoiceResponse) {
				assert.Equal(t, int64(33000), res.TotalCents)
				assert.Equal(t, paymentModel.StatusPending, res.Status)
				assert.Equal(t, int64(33000), res.BalanceCents)
			},
		},
		{
			name: "explicit tax percent overrides the default",
			req: dto.CreateInvoiceRequest{
				ReservationID: "reservation-id-1",
				AmountCents:   30000,
				TaxPercent:    float64Ptr(0),
			},
			setupMock: func() {
				mockReservationRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockInvoiceRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, invoice invoiceModel.Invoice) error {
						assert.Zero(t, invoice.TaxCents)
						assert.Equal(t, int64(30000), invoice.TotalCents)

						return nil
					})
			},
		},
		{
			name: "reservation not found",
			req: dto.CreateInvoiceRequest{
				ReservationID: "missing-reservation",
				AmountCents:   30000,
			},
			setupMock: func() {
				mockReservationRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "invalid due date",
			req: dto.CreateInvoiceRequest{
				ReservationID: "reservation-id-1",
				AmountCents:   30000,
				DueDate:       "not-a-date",
			},
			setupMock: func() {
				mockReservationRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.CreateInvoice(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)

			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

func TestBillingService_GetInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoiceRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockReservationRepo := reservationMocks.NewMockReservation(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockInvoiceRepo, mockPaymentRepo, mockReservationRepo, nil, cfg, stubCache{}, mockOtel, metrics.Get())

	invoice := invoiceModel.Invoice{
		ID:            "invoice-id-1",
		InvoiceNumber: "INV-AB12CD34",
		ReservationID: "reservation-id-1",
		AmountCents:   50000,
		TaxCents:      10000,
		TotalCents:    60000,
		DueDate:       timezone.Now(),
		Metadata:      gModel.Metadata{CreatedAt: timezone.Now(), ModifiedAt: timezone.Now()},
	}

	refundOf := "payment-id-1"
	ledger := []paymentModel.Payment{
		{ID: "payment-id-1", InvoiceID: invoice.ID, AmountCents: 30000, PaidAt: timezone.Now()},
		{ID: "payment-id-2", InvoiceID: invoice.ID, AmountCents: 20000, PaidAt: timezone.Now()},
		{ID: "payment-id-3", InvoiceID: invoice.ID, AmountCents: 10000, PaidAt: timezone.Now()},
		{ID: "payment-id-4", InvoiceID: invoice.ID, AmountCents: -10000, RefundOf: &refundOf, PaidAt: timezone.Now()},
	}

	t.Run("derives status and balance from the ledger", func(t *testing.T) {
		mockInvoiceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(invoice, nil)

		mockPaymentRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(ledger, nil)

		res, err := svc.GetInvoice(context.Background(), invoice.ID)

		assert.NoError(t, err)
		assert.Equal(t, int64(50000), res.NetPaidCents)
		assert.Equal(t, int64(10000), res.BalanceCents)
		assert.Equal(t, paymentModel.StatusPartiallyPaid, res.Status)
		assert.Len(t, res.Payments, 4)
	})

	t.Run("invoice not found", func(t *testing.T) {
		mockInvoiceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(invoiceModel.Invoice{}, nil)

		_, err := svc.GetInvoice(context.Background(), "missing-invoice")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBillingService_RecordPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoiceRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockReservationRepo := reservationMocks.NewMockReservation(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockInvoiceRepo, mockPaymentRepo, mockReservationRepo, nil, cfg, stubCache{}, mockOtel, metrics.Get())

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id-1")

	invoice := invoiceModel.Invoice{
		ID:         "invoice-id-1",
		TotalCents: 60000,
	}

	tests := []struct {
		name      string
		req       dto.RecordPaymentRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "non-positive amount",
			req:  dto.RecordPaymentRequest{AmountCents: 0, Method: paymentModel.MethodCash},
			setupMock: func() {
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "invoice not found",
			req:  dto.RecordPaymentRequest{AmountCents: 10000, Method: paymentModel.MethodCash},
			setupMock: func() {
				mockInvoiceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(invoiceModel.Invoice{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "payment exceeds the outstanding balance",
			req:  dto.RecordPaymentRequest{AmountCents: 20000, Method: paymentModel.MethodCash},
			setupMock: func() {
				mockInvoiceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(invoice, nil)

				mockPaymentRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]paymentModel.Payment{{AmountCents: 50000}}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "ledger load failure",
			req:  dto.RecordPaymentRequest{AmountCents: 10000, Method: paymentModel.MethodCash},
			setupMock: func() {
				mockInvoiceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(invoice, nil)

				mockPaymentRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			_, err := svc.RecordPayment(ctx, invoice.ID, tt.req)

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestBillingService_Refund(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoiceRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockReservationRepo := reservationMocks.NewMockReservation(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockInvoiceRepo, mockPaymentRepo, mockReservationRepo, nil, cfg, stubCache{}, mockOtel, metrics.Get())

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id-1")

	refundOf := "payment-id-0"
	original := paymentModel.Payment{
		ID:          "payment-id-1",
		InvoiceID:   "invoice-id-1",
		AmountCents: 30000,
		Method:      paymentModel.MethodCreditCard,
	}

	tests := []struct {
		name      string
		req       dto.RefundPaymentRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "payment not found",
			req:  dto.RefundPaymentRequest{Reason: "guest complaint"},
			setupMock: func() {
				mockPaymentRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(paymentModel.Payment{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "refund entries cannot be refunded",
			req:  dto.RefundPaymentRequest{Reason: "guest complaint"},
			setupMock: func() {
				refundRow := original
				refundRow.AmountCents = -30000
				refundRow.RefundOf = &refundOf

				mockPaymentRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(refundRow, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "already refunded",
			req:  dto.RefundPaymentRequest{Reason: "guest complaint"},
			setupMock: func() {
				refunded := original
				refunded.Refunded = true

				mockPaymentRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(refunded, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "refund amount exceeds the original payment",
			req:  dto.RefundPaymentRequest{Reason: "guest complaint", AmountCents: int64Ptr(40000)},
			setupMock: func() {
				mockPaymentRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(original, nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			_, err := svc.Refund(ctx, original.ID, tt.req)

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func newTxConn(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return &postgres.Connection{Write: sqlx.NewDb(db, "sqlmock")}, mock
}

func TestBillingService_RecordPaymentUnderLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoiceRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockReservationRepo := reservationMocks.NewMockReservation(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	conn, mockDB := newTxConn(t)

	svc := service.New(mockInvoiceRepo, mockPaymentRepo, mockReservationRepo, conn, cfg, stubCache{}, mockOtel, metrics.Get())

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id-1")

	invoice := invoiceModel.Invoice{
		ID:         "invoice-id-1",
		TotalCents: 30000,
	}

	t.Run("rejects a payment that lost the race for the balance", func(t *testing.T) {
		mockInvoiceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(invoice, nil)

		// The ledger is empty at the pre-check read.
		mockPaymentRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		mockDB.ExpectBegin()

		mockPaymentRepo.EXPECT().
			LockInvoiceTx(gomock.Any(), gomock.Any(), invoice.ID).
			Return(nil)

		// A concurrent payment settled the invoice between the read and the
		// lock, so the recomputed ledger leaves no outstanding balance.
		mockPaymentRepo.EXPECT().
			NetPaidTx(gomock.Any(), gomock.Any(), invoice.ID).
			Return(int64(30000), nil)

		mockDB.ExpectRollback()

		_, err := svc.RecordPayment(ctx, invoice.ID, dto.RecordPaymentRequest{AmountCents: 30000, Method: paymentModel.MethodCash})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("settles the invoice when the recomputed balance still covers it", func(t *testing.T) {
		mockInvoiceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(invoice, nil)

		mockPaymentRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]paymentModel.Payment{{AmountCents: 20000}}, nil)

		mockDB.ExpectBegin()

		mockPaymentRepo.EXPECT().
			LockInvoiceTx(gomock.Any(), gomock.Any(), invoice.ID).
			Return(nil)

		mockPaymentRepo.EXPECT().
			NetPaidTx(gomock.Any(), gomock.Any(), invoice.ID).
			Return(int64(20000), nil)

		mockPaymentRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, payment paymentModel.Payment) error {
				assert.Equal(t, invoice.ID, payment.InvoiceID)
				assert.Equal(t, int64(10000), payment.AmountCents)

				return nil
			})

		mockInvoiceRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.NotNil(t, fields[invoiceModel.FieldPaidAt])

				return nil
			})

		mockDB.ExpectCommit()

		res, err := svc.RecordPayment(ctx, invoice.ID, dto.RecordPaymentRequest{AmountCents: 10000, Method: paymentModel.MethodCash})

		assert.NoError(t, err)
		assert.Equal(t, int64(10000), res.AmountCents)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestBillingService_RefundUnderLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoiceRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockReservationRepo := reservationMocks.NewMockReservation(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	conn, mockDB := newTxConn(t)

	svc := service.New(mockInvoiceRepo, mockPaymentRepo, mockReservationRepo, conn, cfg, stubCache{}, mockOtel, metrics.Get())

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id-1")

	paidAt := timezone.Now()
	invoice := invoiceModel.Invoice{
		ID:         "invoice-id-1",
		TotalCents: 30000,
		PaidAt:     &paidAt,
	}

	original := paymentModel.Payment{
		ID:          "payment-id-1",
		InvoiceID:   invoice.ID,
		AmountCents: 30000,
		Method:      paymentModel.MethodCreditCard,
	}

	t.Run("rejects a refund that lost the race for the marker", func(t *testing.T) {
		mockPaymentRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(original, nil)

		mockInvoiceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(invoice, nil)

		mockPaymentRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]paymentModel.Payment{original}, nil)

		mockDB.ExpectBegin()

		mockPaymentRepo.EXPECT().
			LockInvoiceTx(gomock.Any(), gomock.Any(), invoice.ID).
			Return(nil)

		// A concurrent refund of the same payment committed first.
		mockPaymentRepo.EXPECT().
			IsRefundedTx(gomock.Any(), gomock.Any(), original.ID).
			Return(true, nil)

		mockDB.ExpectRollback()

		_, err := svc.Refund(ctx, original.ID, dto.RefundPaymentRequest{Reason: "guest complaint"})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("refund clears the settled stamp from the recomputed ledger", func(t *testing.T) {
		mockPaymentRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(original, nil)

		mockInvoiceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(invoice, nil)

		mockPaymentRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]paymentModel.Payment{original}, nil)

		mockDB.ExpectBegin()

		mockPaymentRepo.EXPECT().
			LockInvoiceTx(gomock.Any(), gomock.Any(), invoice.ID).
			Return(nil)

		mockPaymentRepo.EXPECT().
			IsRefundedTx(gomock.Any(), gomock.Any(), original.ID).
			Return(false, nil)

		mockPaymentRepo.EXPECT().
			NetPaidTx(gomock.Any(), gomock.Any(), invoice.ID).
			Return(int64(30000), nil)

		mockPaymentRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, refund paymentModel.Payment) error {
				assert.Equal(t, int64(-30000), refund.AmountCents)
				assert.Equal(t, &original.ID, refund.RefundOf)

				return nil
			})

		mockPaymentRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, true, fields[paymentModel.FieldRefunded])

				return nil
			})

		mockInvoiceRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Nil(t, fields[invoiceModel.FieldPaidAt])

				return nil
			})

		mockDB.ExpectCommit()

		res, err := svc.Refund(ctx, original.ID, dto.RefundPaymentRequest{Reason: "guest complaint"})

		assert.NoError(t, err)
		assert.Equal(t, int64(-30000), res.AmountCents)
		assert.True(t, res.RefundOf != nil && *res.RefundOf == original.ID)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func float64Ptr(f float64) *float64 {
	return &f
}

func int64Ptr(i int64) *int64 {
	return &i
}
