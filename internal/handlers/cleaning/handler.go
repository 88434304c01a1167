package cleaning

import (
	"net/http"

	"innkeeper/infras/otel"
	"innkeeper/internal/domains/cleaning/model"
	"innkeeper/internal/domains/cleaning/model/dto"
	"innkeeper/internal/domains/cleaning/service"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/validator"
	"innkeeper/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.CleaningTask
	otel    otel.Otel
}

func New(service service.CleaningTask, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/cleaning-tasks", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCleaningTask)
		routerGroup.Get("/", handler.GetCleaningTasks)
		routerGroup.Get("/{id}", handler.GetCleaningTaskByID)
		routerGroup.Post("/{id}/assign", handler.AssignCleaningTask)
		routerGroup.Post("/{id}/complete", handler.CompleteCleaningTask)
		routerGroup.Post("/{id}/cancel", handler.CancelCleaningTask)
	})
}

// CreateCleaningTask handles the creation of a new cleaning task.
// @Summary Create a new cleaning task
// @Description Create a cleaning task for a room.
// @Tags Cleaning
// @Accept json
// @Produce json
// @Param request body dto.CreateCleaningTaskRequest true "Create Cleaning Task Request"
// @Success 201 {object} response.Message "Cleaning task created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cleaning-tasks [post]
// @Security BearerAuth
func (handler *Handler) CreateCleaningTask(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCleaningTask")
	defer scope.End()

	req := dto.CreateCleaningTaskRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create cleaning task")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Cleaning task created successfully")

	response.WithMessage(writer, http.StatusCreated, "Cleaning task created successfully")
}

// GetCleaningTasks retrieves all cleaning tasks based on query parameters.
// @Summary Get all cleaning tasks
// @Description Retrieve all cleaning tasks with optional filtering and pagination.
// @Tags Cleaning
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param room_id query string false "Filter by room"
// @Param assigned_to query string false "Filter by assignee"
// @Success 200 {object} response.Data[dto.GetCleaningTasksResponse] "List of cleaning tasks"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cleaning-tasks [get]
// @Security BearerAuth
func (handler *Handler) GetCleaningTasks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCleaningTasks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	for _, field := range []string{model.FieldStatus, model.FieldRoomID, model.FieldAssignedTo} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	tasks, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get cleaning tasks")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Cleaning tasks retrieved successfully")

	response.WithJSON(w, http.StatusOK, tasks)
}

// GetCleaningTaskByID retrieves a cleaning task by its ID.
// @Summary Get a cleaning task by ID
// @Description Retrieve a cleaning task by its unique identifier.
// @Tags Cleaning
// @Accept json
// @Produce json
// @Param id path string true "Cleaning Task ID"
// @Success 200 {object} response.Data[dto.CleaningTaskResponse] "Cleaning task details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cleaning-tasks/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetCleaningTaskByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCleaningTaskByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	task, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get cleaning task by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Cleaning task retrieved successfully")

	response.WithJSON(w, http.StatusOK, task)
}

// AssignCleaningTask assigns a cleaning task to a housekeeper.
// @Summary Assign a cleaning task
// @Description Assign a pending cleaning task to a housekeeper, moving it in progress.
// @Tags Cleaning
// @Accept json
// @Produce json
// @Param id path string true "Cleaning Task ID"
// @Param request body dto.AssignCleaningTaskRequest true "Assign Cleaning Task Request"
// @Success 200 {object} response.Message "Cleaning task assigned successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cleaning-tasks/{id}/assign [post]
// @Security BearerAuth
func (handler *Handler) AssignCleaningTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignCleaningTask")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AssignCleaningTaskRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Assign(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign cleaning task")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Cleaning task assigned successfully")

	response.WithMessage(w, http.StatusOK, "Cleaning task assigned successfully")
}

// CompleteCleaningTask marks a cleaning task as completed.
// @Summary Complete a cleaning task
// @Description Mark a cleaning task as completed, clearing the room's cleaning flag.
// @Tags Cleaning
// @Accept json
// @Produce json
// @Param id path string true "Cleaning Task ID"
// @Param request body dto.CompleteCleaningTaskRequest false "Complete Cleaning Task Request"
// @Success 200 {object} response.Message "Cleaning task completed successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cleaning-tasks/{id}/complete [post]
// @Security BearerAuth
func (handler *Handler) CompleteCleaningTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteCleaningTask")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CompleteCleaningTaskRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Complete(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete cleaning task")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Cleaning task completed successfully")

	response.WithMessage(w, http.StatusOK, "Cleaning task completed successfully")
}

// CancelCleaningTask cancels a cleaning task.
// @Summary Cancel a cleaning task
// @Description Cancel a cleaning task that has not been completed.
// @Tags Cleaning
// @Accept json
// @Produce json
// @Param id path string true "Cleaning Task ID"
// @Success 200 {object} response.Message "Cleaning task cancelled successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cleaning-tasks/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelCleaningTask(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelCleaningTask")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel cleaning task")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Cleaning task cancelled successfully")

	response.WithMessage(w, http.StatusOK, "Cleaning task cancelled successfully")
}
