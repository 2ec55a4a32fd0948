package notification

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	Service NotificationService
	Hub     *Hub
}

func NewNotificationController(service NotificationService, hub *Hub) *NotificationController {
	return &NotificationController{
		Service: service,
		Hub:     hub,
	}
}

// ListNotifications godoc
// @Summary List notifications
// @Description List recent notifications, newest first
// @Tags notifications
// @Produce json
// @Param limit query int false "Max results (default 50)"
// @Success 200 {array} Notification
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications [get]
func (ctrl *NotificationController) ListNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	notifications, err := ctrl.Service.List(c.UserContext(), int64(limit))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(notifications)
}

// MarkRead godoc
// @Summary Mark notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204 {object} nil
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/{id}/read [patch]
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctrl.Service.MarkRead(c.UserContext(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleFeed keeps the connection open and streams FeedEvents. Incoming
// messages are ignored; the feed is one-way.
func (ctrl *NotificationController) HandleFeed(c *websocket.Conn) {
	ctrl.Hub.Register(c)
	defer ctrl.Hub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
