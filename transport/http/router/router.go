package router

import (
	"innkeeper/internal/handlers/auth"
	"innkeeper/internal/handlers/billing"
	"innkeeper/internal/handlers/cleaning"
	"innkeeper/internal/handlers/feedback"
	"innkeeper/internal/handlers/maintenance"
	"innkeeper/internal/handlers/reservation"
	"innkeeper/internal/handlers/room"
	"innkeeper/internal/handlers/roomtype"
	"innkeeper/internal/handlers/serviceorder"
	"innkeeper/internal/handlers/user"
	"innkeeper/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	RoomType     roomtype.Handler
	Room         room.Handler
	Reservation  reservation.Handler
	Billing      billing.Handler
	ServiceOrder serviceorder.Handler
	Cleaning     cleaning.Handler
	Maintenance  maintenance.Handler
	Feedback     feedback.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AppMiddleware.Tracing)
		routerGroup.Use(r.AppMiddleware.Metrics)
		routerGroup.Use(r.AppMiddleware.RateLimit())
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.RoomType.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Billing.Router(routerGroup)
		r.DomainHandlers.ServiceOrder.Router(routerGroup)
		r.DomainHandlers.Cleaning.Router(routerGroup)
		r.DomainHandlers.Maintenance.Router(routerGroup)
		r.DomainHandlers.Feedback.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		AuthRole:       authRole,
	}
}
