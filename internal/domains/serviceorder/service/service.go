package service

import (
	"context"
	"fmt"

	"innkeeper/config"
	"innkeeper/infras/otel"
	reservationModel "innkeeper/internal/domains/reservation/model"
	reservationRepository "innkeeper/internal/domains/reservation/repository"
	roomModel "innkeeper/internal/domains/room/model"
	roomRepository "innkeeper/internal/domains/room/repository"
	"innkeeper/internal/domains/serviceorder/model"
	"innkeeper/internal/domains/serviceorder/model/dto"
	"innkeeper/internal/domains/serviceorder/repository"
	"innkeeper/shared"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/taskflow"
	"innkeeper/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetServiceOrder    = "serviceorder:get"
	cacheGetAllServiceOrder = "serviceorder:gets"
	cacheCountServiceOrder  = "serviceorder:count"
)

type ServiceOrder interface {
	Create(ctx context.Context, req dto.CreateServiceOrderRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetServiceOrdersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ServiceOrderResponse, error)
	Assign(ctx context.Context, id string, req dto.AssignServiceOrderRequest) error
	Complete(ctx context.Context, id string, req dto.CompleteServiceOrderRequest) error
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo            repository.ServiceOrder
	reservationRepo reservationRepository.Reservation
	roomRepo        roomRepository.Room
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	repo repository.ServiceOrder,
	reservationRepo reservationRepository.Reservation,
	roomRepo roomRepository.Room,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) ServiceOrder {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateServiceOrderRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.reservationRepo.Exist(ctx, shared.FilterByID(req.ReservationID, reservationModel.FieldID, reservationModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check reservation existence: %w", err)
	}

	if !exist {
		return failure.BadRequestFromString("reservation not found") // nolint:wrapcheck
	}

	exist, err = s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if !exist {
		return failure.BadRequestFromString("room not found") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		return err
	}

	s.invalidateCaches(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetServiceOrdersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllServiceOrder, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for service orders")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count service orders: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get service orders")

		return res, fmt.Errorf("failed to get service orders: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service orders to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountServiceOrder, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count service orders")

		return res, fmt.Errorf("failed to count service orders: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service order count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ServiceOrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetServiceOrder, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(order)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service order to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Assign(ctx context.Context, id string, req dto.AssignServiceOrderRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return err
	}

	if err = taskflow.EnsureAssignable(model.EntityName, order.Status); err != nil {
		return err
	}

	updatedFields := map[string]any{
		model.FieldAssignedTo:    req.AssignedTo,
		model.FieldStatus:        taskflow.StatusInProgress,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to assign service order")

		return fmt.Errorf("failed to assign service order: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Complete(ctx context.Context, id string, req dto.CompleteServiceOrderRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return err
	}

	if err = taskflow.EnsureCompletable(model.EntityName, order.Status); err != nil {
		return err
	}

	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:          taskflow.StatusCompleted,
		model.FieldCompletedBy:     user,
		model.FieldCompletedAt:     now,
		model.FieldResolutionNotes: req.ResolutionNotes,
		constant.FieldModifiedAt:   now,
		constant.FieldModifiedBy:   user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to complete service order")

		return fmt.Errorf("failed to complete service order: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return err
	}

	if err = taskflow.EnsureCancellable(model.EntityName, order.Status); err != nil {
		return err
	}

	updatedFields := map[string]any{
		model.FieldStatus:        taskflow.StatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel service order")

		return fmt.Errorf("failed to cancel service order: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) getOrder(ctx context.Context, id string) (model.ServiceOrder, error) {
	order, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service order")

		return order, fmt.Errorf("failed to get service order: %w", err)
	}

	if order.ID == constant.Empty {
		return order, failure.NotFound("service order not found") // nolint:wrapcheck
	}

	return order, nil
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetServiceOrder, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete service order cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllServiceOrder)
		shared.InvalidateCaches(c, s.cache, cacheCountServiceOrder)
	}()
}
