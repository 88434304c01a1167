package service

import (
	"context"
	"fmt"

	"innkeeper/config"
	"innkeeper/infras/otel"
	"innkeeper/internal/domains/maintenance/model"
	"innkeeper/internal/domains/maintenance/model/dto"
	"innkeeper/internal/domains/maintenance/repository"
	roomModel "innkeeper/internal/domains/room/model"
	roomRepository "innkeeper/internal/domains/room/repository"
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
	cacheGetMaintenance    = "maintenance:get"
	cacheGetAllMaintenance = "maintenance:gets"
	cacheCountMaintenance  = "maintenance:count"
)

type MaintenanceRequest interface {
	Create(ctx context.Context, req dto.CreateMaintenanceRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetMaintenanceResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.MaintenanceResponse, error)
	Assign(ctx context.Context, id string, req dto.AssignMaintenanceRequest) error
	Complete(ctx context.Context, id string, req dto.CompleteMaintenanceRequest) error
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.MaintenanceRequest
	roomRepo roomRepository.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.MaintenanceRequest,
	roomRepo roomRepository.Room,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) MaintenanceRequest {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMaintenanceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.BadRequestFromString("room not found") // nolint:wrapcheck
	}

	if req.TakeRoomOffline && room.Status == roomModel.StatusOccupied {
		return failure.Conflict("room has an in-house guest") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		return err
	}

	if req.TakeRoomOffline && room.Status != roomModel.StatusMaintenance {
		roomFields := map[string]any{
			roomModel.FieldStatus:    roomModel.StatusMaintenance,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err = s.roomRepo.Update(ctx, roomFields, shared.FilterByID(room.ID, roomModel.FieldID, roomModel.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to take room offline")

			return fmt.Errorf("failed to take room offline: %w", err)
		}
	}

	s.invalidateCaches(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMaintenance, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for maintenance requests")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance requests")

		return res, fmt.Errorf("failed to get maintenance requests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance requests to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMaintenance, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count maintenance requests")

		return res, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance request count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetMaintenance, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	request, err := s.getRequest(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(request)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance request to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Assign(ctx context.Context, id string, req dto.AssignMaintenanceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	request, err := s.getRequest(ctx, id)
	if err != nil {
		return err
	}

	if err = taskflow.EnsureAssignable(model.EntityName, request.Status); err != nil {
		return err
	}

	updatedFields := map[string]any{
		model.FieldAssignedTo:    req.AssignedTo,
		model.FieldStatus:        taskflow.StatusInProgress,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to assign maintenance request")

		return fmt.Errorf("failed to assign maintenance request: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

// Complete closes the request and returns an offline room to service.
func (s *serviceImpl) Complete(ctx context.Context, id string, req dto.CompleteMaintenanceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	request, err := s.getRequest(ctx, id)
	if err != nil {
		return err
	}

	if err = taskflow.EnsureCompletable(model.EntityName, request.Status); err != nil {
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
		log.Error().Err(err).Msg("failed to complete maintenance request")

		return fmt.Errorf("failed to complete maintenance request: %w", err)
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(request.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID != constant.Empty && room.Status == roomModel.StatusMaintenance {
		roomFields := map[string]any{
			roomModel.FieldStatus:    roomModel.StatusAvailable,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err = s.roomRepo.Update(ctx, roomFields, shared.FilterByID(room.ID, roomModel.FieldID, roomModel.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to return room to service")

			return fmt.Errorf("failed to return room to service: %w", err)
		}
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	request, err := s.getRequest(ctx, id)
	if err != nil {
		return err
	}

	if err = taskflow.EnsureCancellable(model.EntityName, request.Status); err != nil {
		return err
	}

	updatedFields := map[string]any{
		model.FieldStatus:        taskflow.StatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel maintenance request")

		return fmt.Errorf("failed to cancel maintenance request: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) getRequest(ctx context.Context, id string) (model.MaintenanceRequest, error) {
	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance request")

		return request, fmt.Errorf("failed to get maintenance request: %w", err)
	}

	if request.ID == constant.Empty {
		return request, failure.NotFound("maintenance request not found") // nolint:wrapcheck
	}

	return request, nil
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMaintenance, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete maintenance request cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMaintenance)
		shared.InvalidateCaches(c, s.cache, cacheCountMaintenance)
	}()
}
