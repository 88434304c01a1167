package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/reservation/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"

	"github.com/jmoiron/sqlx"
)

type StatusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

type CheckInCount struct {
	CheckInDate time.Time `db:"check_in_date"`
	Total       int       `db:"total"`
}

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (int, error)
	CountOverlappingTx(ctx context.Context, tx *sqlx.Tx, roomID string, checkIn, checkOut time.Time, excludeID string) (int, error)
	LockRoomTx(ctx context.Context, tx *sqlx.Tx, roomID string) error
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByCheckInDate(ctx context.Context, from, until time.Time) ([]CheckInCount, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// overlapQuery counts non-cancelled reservations on the room whose half-open
// date range [check_in, check_out) intersects the requested one. A checkout on
// day X never conflicts with a check-in on day X. The comparison mirrors
// model.Overlaps, which carries the boundary tests for it.
const overlapQuery = `SELECT COUNT(id) FROM reservations
	WHERE room_id = $1
	AND status != $2
	AND check_in_date < $3
	AND check_out_date > $4
	AND id != $5`

func (repo *repositoryImpl) CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (count int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CountOverlapping")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapQuery)

	err = repo.db.Read.GetContext(ctx, &count, overlapQuery, roomID, model.StatusCancelled, checkOut, checkIn, excludeID)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count overlapping reservations: %w", err)
	}

	return count, nil
}

func (repo *repositoryImpl) CountOverlappingTx(ctx context.Context, tx *sqlx.Tx, roomID string, checkIn, checkOut time.Time, excludeID string) (count int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CountOverlappingTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapQuery)

	err = tx.GetContext(ctx, &count, overlapQuery, roomID, model.StatusCancelled, checkOut, checkIn, excludeID)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count overlapping reservations: %w", err)
	}

	return count, nil
}

// LockRoomTx serializes concurrent assignment attempts on the same room for the
// lifetime of the transaction. The exclusion constraint on reservations is the
// backstop should two writers ever slip past the lock.
func (repo *repositoryImpl) LockRoomTx(ctx context.Context, tx *sqlx.Tx, roomID string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.LockRoomTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", roomID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to acquire room lock: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) CountByStatus(ctx context.Context) (res []StatusCount, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CountByStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := "SELECT status, COUNT(id) AS total FROM reservations GROUP BY status"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &res, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to count reservations by status: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) CountByCheckInDate(ctx context.Context, from, until time.Time) (res []CheckInCount, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CountByCheckInDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `SELECT check_in_date, COUNT(id) AS total FROM reservations
		WHERE check_in_date >= $1 AND check_in_date < $2 AND status IN ($3, $4)
		GROUP BY check_in_date ORDER BY check_in_date`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &res, query, from, until, model.StatusPending, model.StatusConfirmed)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to count upcoming check-ins: %w", err)
	}

	return res, nil
}
