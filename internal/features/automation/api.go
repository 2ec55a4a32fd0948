package automation

import (
	"go-crm-automation/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AutomationApi struct {
	controller *AutomationController
}

func NewAutomationApi(controller *AutomationController) api.Route {
	return &AutomationApi{
		controller: controller,
	}
}

func (h *AutomationApi) Setup(app *fiber.App) {
	group := app.Group("/api/automation")

	group.Get("/rules", h.controller.ListRules)
	group.Get("/rules/:id", h.controller.GetRule)
	group.Post("/rules", h.controller.CreateRule)
	group.Put("/rules/:id", h.controller.UpdateRule)
	group.Delete("/rules/:id", h.controller.DeleteRule)
	group.Patch("/rules/:id/toggle", h.controller.ToggleRule)
}
