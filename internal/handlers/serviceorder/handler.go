package serviceorder

import (
	"net/http"

	"innkeeper/infras/otel"
	"innkeeper/internal/domains/serviceorder/model"
	"innkeeper/internal/domains/serviceorder/model/dto"
	"innkeeper/internal/domains/serviceorder/service"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/validator"
	"innkeeper/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.ServiceOrder
	otel    otel.Otel
}

func New(service service.ServiceOrder, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/service-orders", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateServiceOrder)
		routerGroup.Get("/", handler.GetServiceOrders)
		routerGroup.Get("/{id}", handler.GetServiceOrderByID)
		routerGroup.Post("/{id}/assign", handler.AssignServiceOrder)
		routerGroup.Post("/{id}/complete", handler.CompleteServiceOrder)
		routerGroup.Post("/{id}/cancel", handler.CancelServiceOrder)
	})
}

// CreateServiceOrder handles the creation of a new service order.
// @Summary Create a new service order
// @Description Create a service order for a reservation, such as room service or laundry.
// @Tags ServiceOrder
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceOrderRequest true "Create Service Order Request"
// @Success 201 {object} response.Message "Service order created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/service-orders [post]
// @Security BearerAuth
func (handler *Handler) CreateServiceOrder(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateServiceOrder")
	defer scope.End()

	req := dto.CreateServiceOrderRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create service order")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Service order created successfully")

	response.WithMessage(writer, http.StatusCreated, "Service order created successfully")
}

// GetServiceOrders retrieves all service orders based on query parameters.
// @Summary Get all service orders
// @Description Retrieve all service orders with optional filtering and pagination.
// @Tags ServiceOrder
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param reservation_id query string false "Filter by reservation"
// @Param room_id query string false "Filter by room"
// @Param assigned_to query string false "Filter by assignee"
// @Success 200 {object} response.Data[dto.GetServiceOrdersResponse] "List of service orders"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/service-orders [get]
// @Security BearerAuth
func (handler *Handler) GetServiceOrders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServiceOrders")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	for _, field := range []string{model.FieldStatus, model.FieldReservationID, model.FieldRoomID, model.FieldAssignedTo} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	orders, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get service orders")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service orders retrieved successfully")

	response.WithJSON(w, http.StatusOK, orders)
}

// GetServiceOrderByID retrieves a service order by its ID.
// @Summary Get a service order by ID
// @Description Retrieve a service order by its unique identifier.
// @Tags ServiceOrder
// @Accept json
// @Produce json
// @Param id path string true "Service Order ID"
// @Success 200 {object} response.Data[dto.ServiceOrderResponse] "Service order details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/service-orders/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetServiceOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServiceOrderByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	order, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get service order by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service order retrieved successfully")

	response.WithJSON(w, http.StatusOK, order)
}

// AssignServiceOrder assigns a service order to a staff member.
// @Summary Assign a service order
// @Description Assign a pending service order to a staff member, moving it in progress.
// @Tags ServiceOrder
// @Accept json
// @Produce json
// @Param id path string true "Service Order ID"
// @Param request body dto.AssignServiceOrderRequest true "Assign Service Order Request"
// @Success 200 {object} response.Message "Service order assigned successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/service-orders/{id}/assign [post]
// @Security BearerAuth
func (handler *Handler) AssignServiceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignServiceOrder")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AssignServiceOrderRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Assign(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign service order")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service order assigned successfully")

	response.WithMessage(w, http.StatusOK, "Service order assigned successfully")
}

// CompleteServiceOrder marks a service order as completed.
// @Summary Complete a service order
// @Description Mark a service order as completed with optional resolution notes.
// @Tags ServiceOrder
// @Accept json
// @Produce json
// @Param id path string true "Service Order ID"
// @Param request body dto.CompleteServiceOrderRequest false "Complete Service Order Request"
// @Success 200 {object} response.Message "Service order completed successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/service-orders/{id}/complete [post]
// @Security BearerAuth
func (handler *Handler) CompleteServiceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteServiceOrder")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CompleteServiceOrderRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Complete(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete service order")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service order completed successfully")

	response.WithMessage(w, http.StatusOK, "Service order completed successfully")
}

// CancelServiceOrder cancels a service order.
// @Summary Cancel a service order
// @Description Cancel a service order that has not been completed.
// @Tags ServiceOrder
// @Accept json
// @Produce json
// @Param id path string true "Service Order ID"
// @Success 200 {object} response.Message "Service order cancelled successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/service-orders/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelServiceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelServiceOrder")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel service order")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service order cancelled successfully")

	response.WithMessage(w, http.StatusOK, "Service order cancelled successfully")
}
