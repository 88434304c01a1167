package service

import (
	"context"
	"fmt"
	"time"

	"innkeeper/config"
	"innkeeper/infras/metrics"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/reservation/model"
	"innkeeper/internal/domains/reservation/model/dto"
	"innkeeper/internal/domains/reservation/repository"
	roomModel "innkeeper/internal/domains/room/model"
	roomRepository "innkeeper/internal/domains/room/repository"
	roomtypeModel "innkeeper/internal/domains/roomtype/model"
	roomtypeRepository "innkeeper/internal/domains/roomtype/repository"
	"innkeeper/shared"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	Delete(ctx context.Context, id string) error
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (dto.AvailabilityResponse, error)
	AssignRoom(ctx context.Context, id string, req dto.AssignRoomRequest) error
	CheckIn(ctx context.Context, id string, req dto.CheckInRequest) error
	CheckOut(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string, req dto.CancelReservationRequest) error
	Stats(ctx context.Context) (dto.StatsResponse, error)
	Forecast(ctx context.Context, from time.Time, days int) (dto.ForecastResponse, error)
}

type serviceImpl struct {
	repo         repository.Reservation
	roomRepo     roomRepository.Room
	roomTypeRepo roomtypeRepository.RoomType
	db           *postgres.Connection
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	metrics      *metrics.Metrics
}

func New(
	repo repository.Reservation,
	roomRepo roomRepository.Room,
	roomTypeRepo roomtypeRepository.RoomType,
	db *postgres.Connection,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	metrics *metrics.Metrics,
) Reservation {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		roomTypeRepo: roomTypeRepo,
		db:           db,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		metrics:      metrics,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut, err := req.ParseDates()
	if err != nil {
		return res, err
	}

	roomType, err := s.roomTypeRepo.Get(ctx, shared.FilterByID(req.RoomTypeID, roomtypeModel.FieldID, roomtypeModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type")

		return res, fmt.Errorf("failed to get room type: %w", err)
	}

	if roomType.ID == constant.Empty {
		return res, failure.BadRequestFromString("room type not found") // nolint:wrapcheck
	}

	if req.GuestCount > roomType.Capacity {
		return res, failure.BadRequestFromString("guest count exceeds room type capacity") // nolint:wrapcheck
	}

	if max := s.cfg.Billing.MaxGuestsPerBooking; max > 0 && req.GuestCount > max {
		return res, failure.BadRequestFromString("guest count exceeds the per-booking limit") // nolint:wrapcheck
	}

	nights := int64(timezone.DaysBetween(checkIn, checkOut))
	totalPriceCents := nights * roomType.BasePriceCents

	status := model.StatusPending
	var room roomModel.Room

	if req.RoomID != constant.Empty {
		room, err = s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get room")

			return res, fmt.Errorf("failed to get room: %w", err)
		}

		if room.ID == constant.Empty {
			return res, failure.BadRequestFromString("room not found") // nolint:wrapcheck
		}

		if room.RoomTypeID != req.RoomTypeID {
			return res, failure.BadRequestFromString("room does not match the requested room type") // nolint:wrapcheck
		}

		if room.Status == roomModel.StatusMaintenance {
			return res, failure.Conflict("room is under maintenance") // nolint:wrapcheck
		}

		status = model.StatusConfirmed
		totalPriceCents = nights * room.PriceCents
	}

	reservation := req.ToModel(user, status, checkIn, checkOut, totalPriceCents)

	if req.RoomID == constant.Empty {
		if err = s.repo.Insert(ctx, reservation); err != nil {
			return res, err
		}
	} else {
		tx, txErr := s.db.BeginTx(ctx)
		if txErr != nil {
			return res, txErr
		}

		defer func() {
			if err != nil {
				_ = tx.Rollback()
			}
		}()

		if err = s.repo.LockRoomTx(ctx, tx, room.ID); err != nil {
			return res, err
		}

		overlapping, overlapErr := s.repo.CountOverlappingTx(ctx, tx, room.ID, checkIn, checkOut, constant.Empty)
		if overlapErr != nil {
			err = overlapErr

			return res, err
		}

		if overlapping > 0 {
			err = failure.Conflict("room is not available for the requested dates")

			return res, err // nolint:wrapcheck
		}

		if err = s.repo.InsertTx(ctx, tx, reservation); err != nil {
			return res, err
		}

		roomFields := map[string]any{
			roomModel.FieldStatus:    roomModel.StatusReserved,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err = s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(room.ID, roomModel.FieldID, roomModel.TableName)); err != nil {
			return res, err
		}

		if err = tx.Commit(); err != nil {
			return res, fmt.Errorf("failed to commit reservation transaction: %w", err)
		}
	}

	s.metrics.CountReservationTransition("created")
	s.invalidateListCaches(ctx)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	reservation, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return err
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if reservation.Status != model.StatusPending && reservation.Status != model.StatusConfirmed {
		return failure.Conflict("only pending or confirmed reservations can be updated") // nolint:wrapcheck
	}

	if err := s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	s.invalidateReservationCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return err
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if !reservation.IsTerminal() {
		return failure.Conflict("only checked-out or cancelled reservations can be deleted") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.invalidateReservationCaches(ctx, id)

	return nil
}

// CheckAvailability reports whether the room is free on the half-open window
// [checkIn, checkOut). A stay ending on a date never blocks one starting that
// same date.
func (s *serviceImpl) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check-out date must be after check-in date") // nolint:wrapcheck
	}

	exist, err := s.roomRepo.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	overlapping, err := s.repo.CountOverlapping(ctx, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count overlapping reservations")

		return res, fmt.Errorf("failed to count overlapping reservations: %w", err)
	}

	res.RoomID = roomID
	res.CheckIn = timezone.Format(checkIn, constant.DateOnlyFormat)
	res.CheckOut = timezone.Format(checkOut, constant.DateOnlyFormat)
	res.Available = overlapping == 0

	return res, nil
}

// AssignRoom attaches a concrete room to the reservation. The availability
// re-check runs under an advisory lock on the room id so two staff members
// cannot hand the same room to overlapping stays.
func (s *serviceImpl) AssignRoom(ctx context.Context, id string, req dto.AssignRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AssignRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return err
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if reservation.IsTerminal() || reservation.Status == model.StatusCheckedIn {
		return failure.Conflict("reservation can no longer change rooms") // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if room.RoomTypeID != reservation.RoomTypeID {
		return failure.BadRequestFromString("room does not match the reservation's room type") // nolint:wrapcheck
	}

	if room.Status == roomModel.StatusMaintenance {
		return failure.Conflict("room is under maintenance") // nolint:wrapcheck
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.LockRoomTx(ctx, tx, room.ID); err != nil {
		return err
	}

	overlapping, err := s.repo.CountOverlappingTx(ctx, tx, room.ID, reservation.CheckInDate, reservation.CheckOutDate, reservation.ID)
	if err != nil {
		return err
	}

	if overlapping > 0 {
		err = failure.Conflict("room is not available for the reservation dates")

		return err // nolint:wrapcheck
	}

	reservationFields := map[string]any{
		model.FieldRoomID:        room.ID,
		model.FieldStatus:        model.StatusConfirmed,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.UpdateTx(ctx, tx, reservationFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return err
	}

	roomFields := map[string]any{
		roomModel.FieldStatus:    roomModel.StatusReserved,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(room.ID, roomModel.FieldID, roomModel.TableName)); err != nil {
		return err
	}

	// Release the previously assigned room when switching.
	if reservation.RoomID != nil && *reservation.RoomID != room.ID {
		if err = s.releaseRoomTx(ctx, tx, *reservation.RoomID, reservation.ID, user); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit room assignment: %w", err)
	}

	s.metrics.CountReservationTransition("room_assigned")
	s.invalidateReservationCaches(ctx, id)

	return nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string, req dto.CheckInRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return err
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	switch reservation.Status {
	case model.StatusCheckedIn:
		return failure.Conflict("reservation is already checked in") // nolint:wrapcheck
	case model.StatusCheckedOut:
		return failure.Conflict("reservation is already checked out") // nolint:wrapcheck
	case model.StatusCancelled:
		return failure.Conflict("reservation is cancelled") // nolint:wrapcheck
	}

	roomID := constant.Empty
	if reservation.RoomID != nil {
		roomID = *reservation.RoomID
	}

	if req.RoomID != constant.Empty {
		roomID = req.RoomID
	}

	if roomID == constant.Empty {
		return failure.BadRequestFromString("reservation has no room assigned") // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if room.RoomTypeID != reservation.RoomTypeID {
		return failure.BadRequestFromString("room does not match the reservation's room type") // nolint:wrapcheck
	}

	if room.Status == roomModel.StatusMaintenance {
		return failure.Conflict("room is under maintenance") // nolint:wrapcheck
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.LockRoomTx(ctx, tx, room.ID); err != nil {
		return err
	}

	overlapping, err := s.repo.CountOverlappingTx(ctx, tx, room.ID, reservation.CheckInDate, reservation.CheckOutDate, reservation.ID)
	if err != nil {
		return err
	}

	if overlapping > 0 {
		err = failure.Conflict("room is not available for the reservation dates")

		return err // nolint:wrapcheck
	}

	now := timezone.Now()

	reservationFields := map[string]any{
		model.FieldRoomID:        room.ID,
		model.FieldStatus:        model.StatusCheckedIn,
		model.FieldCheckedInBy:   user,
		model.FieldCheckedInAt:   now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.UpdateTx(ctx, tx, reservationFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return err
	}

	roomFields := map[string]any{
		roomModel.FieldStatus:    roomModel.StatusOccupied,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if err = s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(room.ID, roomModel.FieldID, roomModel.TableName)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit check-in: %w", err)
	}

	s.metrics.CountReservationTransition("checked_in")
	s.invalidateReservationCaches(ctx, id)

	return nil
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return err
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if reservation.Status != model.StatusCheckedIn {
		return failure.Conflict("only checked-in reservations can be checked out") // nolint:wrapcheck
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := timezone.Now()

	reservationFields := map[string]any{
		model.FieldStatus:        model.StatusCheckedOut,
		model.FieldCheckedOutBy:  user,
		model.FieldCheckedOutAt:  now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.UpdateTx(ctx, tx, reservationFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return err
	}

	if reservation.RoomID != nil {
		roomFields := map[string]any{
			roomModel.FieldStatus:        roomModel.StatusAvailable,
			roomModel.FieldNeedsCleaning: true,
			constant.FieldModifiedAt:     now,
			constant.FieldModifiedBy:     user,
		}

		if err = s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(*reservation.RoomID, roomModel.FieldID, roomModel.TableName)); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit check-out: %w", err)
	}

	s.metrics.CountReservationTransition("checked_out")
	s.invalidateReservationCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelReservationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return err
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if reservation.Status == model.StatusCheckedOut {
		return failure.Conflict("checked-out reservations cannot be cancelled") // nolint:wrapcheck
	}

	if reservation.Status == model.StatusCancelled {
		return failure.Conflict("reservation is already cancelled") // nolint:wrapcheck
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := timezone.Now()

	reservationFields := map[string]any{
		model.FieldStatus:          model.StatusCancelled,
		model.FieldCancelledReason: req.Reason,
		model.FieldCancelledAt:     now,
		constant.FieldModifiedAt:   now,
		constant.FieldModifiedBy:   user,
	}

	if err = s.repo.UpdateTx(ctx, tx, reservationFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return err
	}

	if reservation.RoomID != nil {
		if err = s.releaseRoomTx(ctx, tx, *reservation.RoomID, reservation.ID, user); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	s.metrics.CountReservationTransition("cancelled")
	s.invalidateReservationCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations by status")

		return res, fmt.Errorf("failed to count reservations by status: %w", err)
	}

	res.FromCounts(counts)

	return res, nil
}

func (s *serviceImpl) Forecast(ctx context.Context, from time.Time, days int) (res dto.ForecastResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Forecast")
	defer scope.End()
	defer scope.TraceIfError(err)

	if days <= 0 {
		return res, failure.BadRequestFromString("forecast window must cover at least one day") // nolint:wrapcheck
	}

	until := from.AddDate(0, 0, days)

	counts, err := s.repo.CountByCheckInDate(ctx, from, until)
	if err != nil {
		log.Error().Err(err).Msg("failed to count upcoming check-ins")

		return res, fmt.Errorf("failed to count upcoming check-ins: %w", err)
	}

	res.FromCounts(from, days, counts)

	return res, nil
}

// releaseRoomTx returns a room to available unless another active reservation
// still holds it.
func (s *serviceImpl) releaseRoomTx(ctx context.Context, tx *sqlx.Tx, roomID, excludeReservationID, user string) error {
	holderFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldID,
				Value:    excludeReservationID,
				Operator: gDto.FilterOperatorNotEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    []string{model.StatusConfirmed, model.StatusCheckedIn},
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	held, err := s.repo.Exist(ctx, holderFilter)
	if err != nil {
		return fmt.Errorf("failed to check room holders: %w", err)
	}

	if held {
		return nil
	}

	roomFields := map[string]any{
		roomModel.FieldStatus:    roomModel.StatusAvailable,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	return s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func (s *serviceImpl) invalidateReservationCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}
