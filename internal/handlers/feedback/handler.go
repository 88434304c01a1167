package feedback

import (
	"net/http"

	"innkeeper/infras/otel"
	"innkeeper/internal/domains/feedback/model"
	"innkeeper/internal/domains/feedback/model/dto"
	"innkeeper/internal/domains/feedback/service"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/validator"
	"innkeeper/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Feedback
	otel    otel.Otel
}

func New(service service.Feedback, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/feedback", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateFeedback)
		routerGroup.Get("/", handler.GetFeedback)
		routerGroup.Get("/{id}", handler.GetFeedbackByID)
		routerGroup.Post("/{id}/resolve", handler.ResolveFeedback)
		routerGroup.Delete("/{id}", handler.DeleteFeedback)
	})
}

// CreateFeedback handles the submission of new guest feedback.
// @Summary Submit guest feedback
// @Description Submit a rating and optional comment for a stay.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body dto.CreateFeedbackRequest true "Create Feedback Request"
// @Success 201 {object} response.Message "Feedback submitted successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback [post]
// @Security BearerAuth
func (handler *Handler) CreateFeedback(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateFeedback")
	defer scope.End()

	req := dto.CreateFeedbackRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create feedback")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Feedback submitted successfully")

	response.WithMessage(writer, http.StatusCreated, "Feedback submitted successfully")
}

// GetFeedback retrieves all feedback based on query parameters.
// @Summary Get all feedback
// @Description Retrieve all guest feedback with optional filtering and pagination.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param reservation_id query string false "Filter by reservation"
// @Param rating query string false "Filter by rating"
// @Success 200 {object} response.Data[dto.GetFeedbackResponse] "List of feedback"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback [get]
// @Security BearerAuth
func (handler *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFeedback")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	for _, field := range []string{model.FieldStatus, model.FieldReservationID, model.FieldRating} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	feedback, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get feedback")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Feedback retrieved successfully")

	response.WithJSON(w, http.StatusOK, feedback)
}

// GetFeedbackByID retrieves feedback by its ID.
// @Summary Get feedback by ID
// @Description Retrieve a feedback entry by its unique identifier.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Data[dto.FeedbackResponse] "Feedback details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetFeedbackByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFeedbackByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	feedback, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get feedback by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Feedback retrieved successfully")

	response.WithJSON(w, http.StatusOK, feedback)
}

// ResolveFeedback marks feedback as resolved with a staff response.
// @Summary Resolve feedback
// @Description Mark a feedback entry as resolved, recording the staff response.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Feedback ID"
// @Param request body dto.ResolveFeedbackRequest true "Resolve Feedback Request"
// @Success 200 {object} response.Message "Feedback resolved successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback/{id}/resolve [post]
// @Security BearerAuth
func (handler *Handler) ResolveFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResolveFeedback")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ResolveFeedbackRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Resolve(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve feedback")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Feedback resolved successfully")

	response.WithMessage(w, http.StatusOK, "Feedback resolved successfully")
}

// DeleteFeedback deletes feedback by its ID.
// @Summary Delete feedback by ID
// @Description Delete a feedback entry using its unique identifier.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Message "Feedback deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/feedback/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteFeedback")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete feedback")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Feedback deleted successfully")

	response.WithMessage(w, http.StatusOK, "Feedback deleted successfully")
}
