//go:build wireinject
// +build wireinject

package di

import (
	"innkeeper/config"
	"innkeeper/infras/jwt"
	"innkeeper/infras/metrics"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/infras/redis"
	"innkeeper/infras/s3"
	"innkeeper/permissions"
	"innkeeper/shared/cache"
	"innkeeper/transport/http"
	"innkeeper/transport/http/middleware"
	"innkeeper/transport/http/router"

	"github.com/google/wire"

	authService "innkeeper/internal/domains/auth/service"
	billingService "innkeeper/internal/domains/billing/service"
	cleaningRepository "innkeeper/internal/domains/cleaning/repository"
	cleaningService "innkeeper/internal/domains/cleaning/service"
	feedbackRepository "innkeeper/internal/domains/feedback/repository"
	feedbackService "innkeeper/internal/domains/feedback/service"
	invoiceRepository "innkeeper/internal/domains/invoice/repository"
	maintenanceRepository "innkeeper/internal/domains/maintenance/repository"
	maintenanceService "innkeeper/internal/domains/maintenance/service"
	paymentRepository "innkeeper/internal/domains/payment/repository"
	reservationRepository "innkeeper/internal/domains/reservation/repository"
	reservationService "innkeeper/internal/domains/reservation/service"
	roomRepository "innkeeper/internal/domains/room/repository"
	roomService "innkeeper/internal/domains/room/service"
	roomtypeRepository "innkeeper/internal/domains/roomtype/repository"
	roomtypeService "innkeeper/internal/domains/roomtype/service"
	serviceorderRepository "innkeeper/internal/domains/serviceorder/repository"
	serviceorderService "innkeeper/internal/domains/serviceorder/service"
	userRepository "innkeeper/internal/domains/user/repository"
	userService "innkeeper/internal/domains/user/service"

	authHandler "innkeeper/internal/handlers/auth"
	billingHandler "innkeeper/internal/handlers/billing"
	cleaningHandler "innkeeper/internal/handlers/cleaning"
	feedbackHandler "innkeeper/internal/handlers/feedback"
	maintenanceHandler "innkeeper/internal/handlers/maintenance"
	reservationHandler "innkeeper/internal/handlers/reservation"
	roomHandler "innkeeper/internal/handlers/room"
	roomtypeHandler "innkeeper/internal/handlers/roomtype"
	serviceorderHandler "innkeeper/internal/handlers/serviceorder"
	userHandler "innkeeper/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	metrics.Get,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var inventoryDomain = wire.NewSet(
	roomtypeRepository.New,
	roomtypeService.New,
	roomRepository.New,
	roomService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var billingDomain = wire.NewSet(
	invoiceRepository.New,
	paymentRepository.New,
	billingService.New,
)

var operationsDomain = wire.NewSet(
	serviceorderRepository.New,
	serviceorderService.New,
	cleaningRepository.New,
	cleaningService.New,
	maintenanceRepository.New,
	maintenanceService.New,
	feedbackRepository.New,
	feedbackService.New,
)

var domains = wire.NewSet(
	userDomain,
	inventoryDomain,
	reservationDomain,
	billingDomain,
	operationsDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomtypeHandler.New,
	roomHandler.New,
	reservationHandler.New,
	billingHandler.New,
	serviceorderHandler.New,
	cleaningHandler.New,
	maintenanceHandler.New,
	feedbackHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
