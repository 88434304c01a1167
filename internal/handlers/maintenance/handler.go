package maintenance

import (
	"net/http"

	"innkeeper/infras/otel"
	"innkeeper/internal/domains/maintenance/model"
	"innkeeper/internal/domains/maintenance/model/dto"
	"innkeeper/internal/domains/maintenance/service"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/validator"
	"innkeeper/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.MaintenanceRequest
	otel    otel.Otel
}

func New(service service.MaintenanceRequest, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/maintenance-requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMaintenanceRequest)
		routerGroup.Get("/", handler.GetMaintenanceRequests)
		routerGroup.Get("/{id}", handler.GetMaintenanceRequestByID)
		routerGroup.Post("/{id}/assign", handler.AssignMaintenanceRequest)
		routerGroup.Post("/{id}/complete", handler.CompleteMaintenanceRequest)
		routerGroup.Post("/{id}/cancel", handler.CancelMaintenanceRequest)
	})
}

// CreateMaintenanceRequest handles the creation of a new maintenance request.
// @Summary Create a new maintenance request
// @Description Create a maintenance request for a room, optionally taking it offline.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.CreateMaintenanceRequest true "Create Maintenance Request"
// @Success 201 {object} response.Message "Maintenance request created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance-requests [post]
// @Security BearerAuth
func (handler *Handler) CreateMaintenanceRequest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMaintenanceRequest")
	defer scope.End()

	req := dto.CreateMaintenanceRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create maintenance request")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Maintenance request created successfully")

	response.WithMessage(writer, http.StatusCreated, "Maintenance request created successfully")
}

// GetMaintenanceRequests retrieves all maintenance requests based on query parameters.
// @Summary Get all maintenance requests
// @Description Retrieve all maintenance requests with optional filtering and pagination.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param room_id query string false "Filter by room"
// @Param assigned_to query string false "Filter by assignee"
// @Success 200 {object} response.Data[dto.GetMaintenanceResponse] "List of maintenance requests"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance-requests [get]
// @Security BearerAuth
func (handler *Handler) GetMaintenanceRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaintenanceRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	for _, field := range []string{model.FieldStatus, model.FieldPriority, model.FieldRoomID, model.FieldAssignedTo} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	requests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance requests retrieved successfully")

	response.WithJSON(w, http.StatusOK, requests)
}

// GetMaintenanceRequestByID retrieves a maintenance request by its ID.
// @Summary Get a maintenance request by ID
// @Description Retrieve a maintenance request by its unique identifier.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Success 200 {object} response.Data[dto.MaintenanceResponse] "Maintenance request details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance-requests/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetMaintenanceRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaintenanceRequestByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	maintenanceRequest, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance request by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance request retrieved successfully")

	response.WithJSON(w, http.StatusOK, maintenanceRequest)
}

// AssignMaintenanceRequest assigns a maintenance request to a technician.
// @Summary Assign a maintenance request
// @Description Assign a pending maintenance request to a technician, moving it in progress.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Param request body dto.AssignMaintenanceRequest true "Assign Maintenance Request"
// @Success 200 {object} response.Message "Maintenance request assigned successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance-requests/{id}/assign [post]
// @Security BearerAuth
func (handler *Handler) AssignMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignMaintenanceRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AssignMaintenanceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Assign(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign maintenance request")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance request assigned successfully")

	response.WithMessage(w, http.StatusOK, "Maintenance request assigned successfully")
}

// CompleteMaintenanceRequest marks a maintenance request as completed.
// @Summary Complete a maintenance request
// @Description Mark a maintenance request as completed, returning the room to service.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Param request body dto.CompleteMaintenanceRequest false "Complete Maintenance Request"
// @Success 200 {object} response.Message "Maintenance request completed successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance-requests/{id}/complete [post]
// @Security BearerAuth
func (handler *Handler) CompleteMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteMaintenanceRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CompleteMaintenanceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Complete(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete maintenance request")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance request completed successfully")

	response.WithMessage(w, http.StatusOK, "Maintenance request completed successfully")
}

// CancelMaintenanceRequest cancels a maintenance request.
// @Summary Cancel a maintenance request
// @Description Cancel a maintenance request that has not been completed.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Success 200 {object} response.Message "Maintenance request cancelled successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance-requests/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelMaintenanceRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel maintenance request")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance request cancelled successfully")

	response.WithMessage(w, http.StatusOK, "Maintenance request cancelled successfully")
}
