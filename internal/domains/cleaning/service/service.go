package service

import (
	"context"
	"fmt"

	"innkeeper/config"
	"innkeeper/infras/otel"
	"innkeeper/internal/domains/cleaning/model"
	"innkeeper/internal/domains/cleaning/model/dto"
	"innkeeper/internal/domains/cleaning/repository"
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
	cacheGetCleaningTask    = "cleaning:get"
	cacheGetAllCleaningTask = "cleaning:gets"
	cacheCountCleaningTask  = "cleaning:count"
)

type CleaningTask interface {
	Create(ctx context.Context, req dto.CreateCleaningTaskRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCleaningTasksResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.CleaningTaskResponse, error)
	Assign(ctx context.Context, id string, req dto.AssignCleaningTaskRequest) error
	Complete(ctx context.Context, id string, req dto.CompleteCleaningTaskRequest) error
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.CleaningTask
	roomRepo roomRepository.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.CleaningTask,
	roomRepo roomRepository.Room,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) CleaningTask {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCleaningTaskRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
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

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCleaningTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCleaningTask, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for cleaning tasks")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count cleaning tasks: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get cleaning tasks")

		return res, fmt.Errorf("failed to get cleaning tasks: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save cleaning tasks to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCleaningTask, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count cleaning tasks")

		return res, fmt.Errorf("failed to count cleaning tasks: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save cleaning task count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CleaningTaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetCleaningTask, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	task, err := s.getTask(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(task)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save cleaning task to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Assign(ctx context.Context, id string, req dto.AssignCleaningTaskRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	if err = taskflow.EnsureAssignable(model.EntityName, task.Status); err != nil {
		return err
	}

	updatedFields := map[string]any{
		model.FieldAssignedTo:    req.AssignedTo,
		model.FieldStatus:        taskflow.StatusInProgress,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to assign cleaning task")

		return fmt.Errorf("failed to assign cleaning task: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

// Complete closes the task and clears the room's cleaning flag.
func (s *serviceImpl) Complete(ctx context.Context, id string, req dto.CompleteCleaningTaskRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	if err = taskflow.EnsureCompletable(model.EntityName, task.Status); err != nil {
		return err
	}

	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:        taskflow.StatusCompleted,
		model.FieldCompletedBy:   user,
		model.FieldCompletedAt:   now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if req.Notes != constant.Empty {
		updatedFields[model.FieldNotes] = req.Notes
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to complete cleaning task")

		return fmt.Errorf("failed to complete cleaning task: %w", err)
	}

	roomFields := map[string]any{
		roomModel.FieldNeedsCleaning: false,
		roomModel.FieldLastCleanedAt: now,
		roomModel.FieldLastCleanedBy: user,
		constant.FieldModifiedAt:     now,
		constant.FieldModifiedBy:     user,
	}

	if err = s.roomRepo.Update(ctx, roomFields, shared.FilterByID(task.RoomID, roomModel.FieldID, roomModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to clear room cleaning flag")

		return fmt.Errorf("failed to clear room cleaning flag: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	if err = taskflow.EnsureCancellable(model.EntityName, task.Status); err != nil {
		return err
	}

	updatedFields := map[string]any{
		model.FieldStatus:        taskflow.StatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel cleaning task")

		return fmt.Errorf("failed to cancel cleaning task: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) getTask(ctx context.Context, id string) (model.CleaningTask, error) {
	task, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get cleaning task")

		return task, fmt.Errorf("failed to get cleaning task: %w", err)
	}

	if task.ID == constant.Empty {
		return task, failure.NotFound("cleaning task not found") // nolint:wrapcheck
	}

	return task, nil
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCleaningTask, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete cleaning task cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCleaningTask)
		shared.InvalidateCaches(c, s.cache, cacheCountCleaningTask)
	}()
}
