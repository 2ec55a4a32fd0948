package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-crm-automation/internal/common/api"
	"go-crm-automation/internal/config"
	"go-crm-automation/internal/database"
	"go-crm-automation/internal/features/automation"
	"go-crm-automation/internal/features/events"
	"go-crm-automation/internal/features/execution"
	"go-crm-automation/internal/features/notification"
	"go-crm-automation/internal/features/record"
	"go-crm-automation/internal/features/scheduler"
	"go-crm-automation/internal/logger"
	"go-crm-automation/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			record.NewTaskRepository,
			record.NewDealRepository,
			record.NewClientRepository,
			record.NewNoteRepository,
			notification.NewNotificationRepository,
			execution.NewExecutionRepository,
			automation.NewAutomationRepository,
			scheduler.NewSchedulerRepository,

			// Services
			notification.NewHub,
			notification.NewNotificationService,
			execution.NewExecutionService,
			execution.NewArchiver,
			automation.NewActionExecutor,
			automation.NewAutomationService,
			scheduler.NewSchedulerService,

			// Interface adapters
			func(s execution.ExecutionService) execution.Recorder { return s },

			// Controllers
			automation.NewAutomationController,
			scheduler.NewSchedulerController,
			execution.NewExecutionController,
			notification.NewNotificationController,
			events.NewEventController,

			// API Routes
			AsRoute(automation.NewAutomationApi),
			AsRoute(scheduler.NewSchedulerApi),
			AsRoute(execution.NewExecutionApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(events.NewEventApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			scheduler.RegisterDriver,
			execution.RegisterArchiver,
		),
	)

	app.Run()
}
