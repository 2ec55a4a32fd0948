package notification

import (
	"go-crm-automation/internal/common/api"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
}

func NewNotificationApi(controller *NotificationController) api.Route {
	return &NotificationApi{
		controller: controller,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/notifications")

	group.Get("/", h.controller.ListNotifications)
	group.Patch("/:id/read", h.controller.MarkRead)

	app.Get("/ws/feed", websocket.New(h.controller.HandleFeed))
}
