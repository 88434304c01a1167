package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/payment/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Payment interface {
	Insert(ctx context.Context, model model.Payment) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Payment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error

	LockInvoiceTx(ctx context.Context, tx *sqlx.Tx, invoiceID string) error
	NetPaidTx(ctx context.Context, tx *sqlx.Tx, invoiceID string) (int64, error)
	IsRefundedTx(ctx context.Context, tx *sqlx.Tx, paymentID string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockInvoiceTx serializes concurrent ledger writes on the same invoice for
// the lifetime of the transaction. Balance checks made before the lock must be
// repeated once it is held.
func (repo *repositoryImpl) LockInvoiceTx(ctx context.Context, tx *sqlx.Tx, invoiceID string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.LockInvoiceTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", invoiceID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to acquire invoice lock: %w", err)
	}

	return nil
}

const netPaidQuery = `SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE invoice_id = $1`

// NetPaidTx sums the invoice ledger, refund rows included, inside the
// transaction.
func (repo *repositoryImpl) NetPaidTx(ctx context.Context, tx *sqlx.Tx, invoiceID string) (net int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.NetPaidTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, netPaidQuery)

	if err = tx.GetContext(ctx, &net, netPaidQuery, invoiceID); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to sum invoice ledger: %w", err)
	}

	return net, nil
}

const refundedQuery = `SELECT refunded FROM payments WHERE id = $1`

// IsRefundedTx re-reads the refund marker inside the transaction.
func (repo *repositoryImpl) IsRefundedTx(ctx context.Context, tx *sqlx.Tx, paymentID string) (refunded bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.IsRefundedTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, refundedQuery)

	if err = tx.GetContext(ctx, &refunded, refundedQuery, paymentID); err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read payment refund state: %w", err)
	}

	return refunded, nil
}
