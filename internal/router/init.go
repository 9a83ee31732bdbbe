package router

import (
	"github.com/proactivefit/proactive-server/internal/application"
	"github.com/proactivefit/proactive-server/internal/container"
	pginfra "github.com/proactivefit/proactive-server/internal/infrastructure/postgres"
	handlers "github.com/proactivefit/proactive-server/internal/interface/http"
	"github.com/proactivefit/proactive-server/internal/router/modules"
	"github.com/proactivefit/proactive-server/pkg/helpers"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	logger := container.GetLogger()
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(container.GetPGPool())
	classes := pginfra.NewClassRepository(container.GetPGPool())
	payments := pginfra.NewPaymentRepository(container.GetPGPool())

	userSvc := application.NewUserService(users, container.GetJWT(), logger)
	classSvc := application.NewClassService(classes, users, logger, container.GetRedis(), container.GetES(), cfg.ESClassesIndex)
	bookingSvc := application.NewBookingService(users, logger)
	billingSvc := application.NewBillingService(container.GetGateway(), cfg.Currency, logger)
	settlementSvc := application.NewSettlementService(
		users, classes, payments,
		eventPub(container.GetReconcilePub()),
		eventPub(container.GetReceiptsPub()),
		logger,
	)

	r.Add(modules.NewAuth(handlers.NewAuthHandler(userSvc, logger)))
	r.Add(modules.NewUsers(handlers.NewUserHandler(userSvc, logger)))
	r.Add(modules.NewClasses(handlers.NewClassHandler(classSvc, logger)))
	r.Add(modules.NewBookings(handlers.NewBookingHandler(bookingSvc, logger)))
	r.Add(modules.NewPayments(handlers.NewPaymentHandler(billingSvc, settlementSvc, logger)))
}

// eventPub keeps a nil *RabbitPublisher from turning into a non-nil
// interface value inside the settlement service.
func eventPub(p *helpers.RabbitPublisher) application.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
