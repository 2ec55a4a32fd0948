package execution

import (
	"go-crm-automation/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type ExecutionApi struct {
	controller *ExecutionController
}

func NewExecutionApi(controller *ExecutionController) api.Route {
	return &ExecutionApi{
		controller: controller,
	}
}

func (h *ExecutionApi) Setup(app *fiber.App) {
	group := app.Group("/api/executions")

	group.Get("/", h.controller.ListExecutions)
	group.Get("/export", h.controller.ExportExecutions)
}
