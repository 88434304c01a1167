package service

import (
	"context"
	"fmt"
	"math"

	"innkeeper/config"
	"innkeeper/infras/metrics"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/billing/model/dto"
	invoiceModel "innkeeper/internal/domains/invoice/model"
	invoiceRepository "innkeeper/internal/domains/invoice/repository"
	paymentModel "innkeeper/internal/domains/payment/model"
	paymentRepository "innkeeper/internal/domains/payment/repository"
	reservationModel "innkeeper/internal/domains/reservation/model"
	reservationRepository "innkeeper/internal/domains/reservation/repository"
	"innkeeper/shared"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetInvoice    = "invoice:get"
	cacheGetAllInvoice = "invoice:gets"
	cacheCountInvoice  = "invoice:count"
)

type Billing interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (dto.InvoiceResponse, error)
	GetAllInvoices(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetInvoicesResponse, error)
	CountInvoices(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	RecordPayment(ctx context.Context, invoiceID string, req dto.RecordPaymentRequest) (dto.PaymentResponse, error)
	Refund(ctx context.Context, paymentID string, req dto.RefundPaymentRequest) (dto.PaymentResponse, error)
}

type serviceImpl struct {
	invoiceRepo     invoiceRepository.Invoice
	paymentRepo     paymentRepository.Payment
	reservationRepo reservationRepository.Reservation
	db              *postgres.Connection
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
	metrics         *metrics.Metrics
}

func New(
	invoiceRepo invoiceRepository.Invoice,
	paymentRepo paymentRepository.Payment,
	reservationRepo reservationRepository.Reservation,
	db *postgres.Connection,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	metrics *metrics.Metrics,
) Billing {
	return &serviceImpl{
		invoiceRepo:     invoiceRepo,
		paymentRepo:     paymentRepo,
		reservationRepo: reservationRepo,
		db:              db,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
		metrics:         metrics,
	}
}

// TaxCents rounds amount * percent / 100 to the nearest cent, half away from
// zero.
func TaxCents(amountCents int64, percent float64) int64 {
	return int64(math.Round(float64(amountCents) * percent / 100))
}

func (s *serviceImpl) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateInvoice")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.reservationRepo.Exist(ctx, shared.FilterByID(req.ReservationID, reservationModel.FieldID, reservationModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check reservation existence")

		return res, fmt.Errorf("failed to check reservation existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	taxPercent := s.cfg.Billing.DefaultTaxPercent
	if req.TaxPercent != nil {
		taxPercent = *req.TaxPercent
	}

	dueDate, err := req.ParseDueDate()
	if err != nil {
		return res, err
	}

	if dueDate.IsZero() {
		dueDate = timezone.Now().AddDate(0, 0, s.cfg.Billing.InvoiceDueDays)
	}

	invoice := req.ToModel(user, TaxCents(req.AmountCents, taxPercent), dueDate)

	if err = s.invoiceRepo.Insert(ctx, invoice); err != nil {
		return res, err
	}

	s.invalidateInvoiceCaches(ctx, invoice.ID)

	res.FromModel(invoice, nil)

	return res, nil
}

func (s *serviceImpl) GetInvoice(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetInvoice")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetInvoice, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for invoice")

		return res, nil
	}

	invoice, ledger, err := s.loadInvoice(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(invoice, ledger)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoice to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAllInvoices(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetInvoicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllInvoices")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllInvoice, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for invoices")

		return res, nil
	}

	total, err := s.CountInvoices(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count invoices")

		return res, fmt.Errorf("failed to count invoices: %w", err)
	}

	models, err := s.invoiceRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoices")

		return res, fmt.Errorf("failed to get invoices: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoices to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) CountInvoices(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountInvoices")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountInvoice, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for invoice count")

		return res, nil
	}

	res, err = s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count invoices")

		return res, fmt.Errorf("failed to count invoices: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoice count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) RecordPayment(ctx context.Context, invoiceID string, req dto.RecordPaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if req.AmountCents <= 0 {
		return res, failure.BadRequestFromString("payment amount must be positive") // nolint:wrapcheck
	}

	invoice, ledger, err := s.loadInvoice(ctx, invoiceID)
	if err != nil {
		return res, err
	}

	netPaid := paymentModel.NetPaid(ledger)
	if req.AmountCents > invoice.TotalCents-netPaid {
		return res, failure.Conflict("payment exceeds the outstanding balance") // nolint:wrapcheck
	}

	payment := req.ToModel(user, invoice.ID)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return res, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.paymentRepo.LockInvoiceTx(ctx, tx, invoice.ID); err != nil {
		return res, err
	}

	// Recompute the ledger under the lock; a concurrent payment may have
	// landed since the pre-check read.
	netPaid, err = s.paymentRepo.NetPaidTx(ctx, tx, invoice.ID)
	if err != nil {
		return res, err
	}

	if req.AmountCents > invoice.TotalCents-netPaid {
		err = failure.Conflict("payment exceeds the outstanding balance") // nolint:wrapcheck

		return res, err
	}

	if err = s.paymentRepo.InsertTx(ctx, tx, payment); err != nil {
		return res, err
	}

	if netPaid+req.AmountCents >= invoice.TotalCents {
		invoiceFields := map[string]any{
			invoiceModel.FieldPaidAt: timezone.Now(),
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err = s.invoiceRepo.UpdateTx(ctx, tx, invoiceFields, shared.FilterByID(invoice.ID, invoiceModel.FieldID, invoiceModel.TableName)); err != nil {
			return res, err
		}
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit payment: %w", err)
	}

	s.metrics.CountPayment("charge", req.AmountCents)
	s.invalidateInvoiceCaches(ctx, invoice.ID)

	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) Refund(ctx context.Context, paymentID string, req dto.RefundPaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	original, err := s.paymentRepo.Get(ctx, shared.FilterByID(paymentID, paymentModel.FieldID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if original.ID == constant.Empty {
		return res, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	if original.IsRefund() {
		return res, failure.Conflict("refund entries cannot be refunded") // nolint:wrapcheck
	}

	if original.Refunded {
		return res, failure.Conflict("payment is already refunded") // nolint:wrapcheck
	}

	refundAmount := original.AmountCents
	if req.AmountCents != nil {
		refundAmount = *req.AmountCents
	}

	if refundAmount <= 0 || refundAmount > original.AmountCents {
		return res, failure.Conflict("refund amount exceeds the original payment") // nolint:wrapcheck
	}

	invoice, _, err := s.loadInvoice(ctx, original.InvoiceID)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	refund := paymentModel.Payment{
		ID:           uuid.NewString(),
		InvoiceID:    original.InvoiceID,
		AmountCents:  -refundAmount,
		Method:       original.Method,
		RefundReason: &req.Reason,
		RefundOf:     &original.ID,
		PaidAt:       now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return res, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.paymentRepo.LockInvoiceTx(ctx, tx, original.InvoiceID); err != nil {
		return res, err
	}

	// Re-read the refund marker under the lock so two refunds of the same
	// payment cannot both pass the pre-check.
	refunded, err := s.paymentRepo.IsRefundedTx(ctx, tx, original.ID)
	if err != nil {
		return res, err
	}

	if refunded {
		err = failure.Conflict("payment is already refunded") // nolint:wrapcheck

		return res, err
	}

	netPaid, err := s.paymentRepo.NetPaidTx(ctx, tx, original.InvoiceID)
	if err != nil {
		return res, err
	}

	if err = s.paymentRepo.InsertTx(ctx, tx, refund); err != nil {
		return res, err
	}

	originalFields := map[string]any{
		paymentModel.FieldRefunded:     true,
		paymentModel.FieldRefundReason: req.Reason,
		constant.FieldModifiedAt:       now,
		constant.FieldModifiedBy:       user,
	}

	if err = s.paymentRepo.UpdateTx(ctx, tx, originalFields, shared.FilterByID(original.ID, paymentModel.FieldID, paymentModel.TableName)); err != nil {
		return res, err
	}

	if netPaid-refundAmount < invoice.TotalCents {
		invoiceFields := map[string]any{
			invoiceModel.FieldPaidAt: nil,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err = s.invoiceRepo.UpdateTx(ctx, tx, invoiceFields, shared.FilterByID(invoice.ID, invoiceModel.FieldID, invoiceModel.TableName)); err != nil {
			return res, err
		}
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit refund: %w", err)
	}

	s.metrics.CountPayment("refund", refundAmount)
	s.invalidateInvoiceCaches(ctx, invoice.ID)

	res.FromModel(refund)

	return res, nil
}

func (s *serviceImpl) loadInvoice(ctx context.Context, id string) (invoiceModel.Invoice, []paymentModel.Payment, error) {
	invoice, err := s.invoiceRepo.Get(ctx, shared.FilterByID(id, invoiceModel.FieldID, invoiceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return invoice, nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return invoice, nil, failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	ledger, err := s.paymentRepo.GetAll(
		ctx,
		gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: "ASC"},
		shared.FilterByField(invoice.ID, paymentModel.FieldInvoiceID, paymentModel.TableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice ledger")

		return invoice, nil, fmt.Errorf("failed to get invoice ledger: %w", err)
	}

	return invoice, ledger, nil
}

func (s *serviceImpl) invalidateInvoiceCaches(ctx context.Context, invoiceID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetInvoice, invoiceID)); err != nil {
			log.Error().Err(err).Msg("failed to delete invoice cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllInvoice)
		shared.InvalidateCaches(c, s.cache, cacheCountInvoice)
	}()
}
