package service

import (
	"context"
	"fmt"

	"innkeeper/config"
	"innkeeper/infras/otel"
	"innkeeper/internal/domains/feedback/model"
	"innkeeper/internal/domains/feedback/model/dto"
	"innkeeper/internal/domains/feedback/repository"
	reservationModel "innkeeper/internal/domains/reservation/model"
	reservationRepository "innkeeper/internal/domains/reservation/repository"
	"innkeeper/shared"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetFeedback    = "feedback:get"
	cacheGetAllFeedback = "feedback:gets"
	cacheCountFeedback  = "feedback:count"
)

type Feedback interface {
	Create(ctx context.Context, req dto.CreateFeedbackRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetFeedbackResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.FeedbackResponse, error)
	Resolve(ctx context.Context, id string, req dto.ResolveFeedbackRequest) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo            repository.Feedback
	reservationRepo reservationRepository.Reservation
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	repo repository.Feedback,
	reservationRepo reservationRepository.Reservation,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Feedback {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateFeedbackRequest) (err error) {
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

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		return err
	}

	s.invalidateCaches(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetFeedbackResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllFeedback, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for feedback")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count feedback: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get feedback")

		return res, fmt.Errorf("failed to get feedback: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save feedback to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountFeedback, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count feedback")

		return res, fmt.Errorf("failed to count feedback: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save feedback count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.FeedbackResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetFeedback, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	feedback, err := s.getFeedback(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(feedback)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save feedback to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Resolve(ctx context.Context, id string, req dto.ResolveFeedbackRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	feedback, err := s.getFeedback(ctx, id)
	if err != nil {
		return err
	}

	if feedback.Status == model.StatusResolved {
		return failure.Conflict("feedback is already resolved") // nolint:wrapcheck
	}

	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusResolved,
		model.FieldResolvedBy:    user,
		model.FieldResolvedAt:    now,
		model.FieldResponse:      req.Response,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to resolve feedback")

		return fmt.Errorf("failed to resolve feedback: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.getFeedback(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete feedback")

		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) getFeedback(ctx context.Context, id string) (model.Feedback, error) {
	feedback, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get feedback")

		return feedback, fmt.Errorf("failed to get feedback: %w", err)
	}

	if feedback.ID == constant.Empty {
		return feedback, failure.NotFound("feedback not found") // nolint:wrapcheck
	}

	return feedback, nil
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetFeedback, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete feedback cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllFeedback)
		shared.InvalidateCaches(c, s.cache, cacheCountFeedback)
	}()
}
