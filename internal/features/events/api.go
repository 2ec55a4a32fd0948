package events

import (
	"go-crm-automation/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type EventApi struct {
	controller *EventController
}

func NewEventApi(controller *EventController) api.Route {
	return &EventApi{
		controller: controller,
	}
}

func (h *EventApi) Setup(app *fiber.App) {
	app.Post("/api/events", h.controller.IngestEvent)
}
