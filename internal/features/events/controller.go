package events

import (
	"time"

	"go-crm-automation/internal/features/automation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EventController struct {
	Service automation.AutomationService
}

func NewEventController(service automation.AutomationService) *EventController {
	return &EventController{
		Service: service,
	}
}

type eventRequest struct {
	Type    automation.TriggerType `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// IngestEvent godoc
// @Summary Ingest an event
// @Description Run the automation pipeline for one observed record change
// @Tags events
// @Accept json
// @Produce json
// @Param event body eventRequest true "Event"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/events [post]
func (ctrl *EventController) IngestEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body: " + err.Error()})
	}
	if req.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Event type is required"})
	}

	event := automation.Event{
		ID:         uuid.NewString(),
		Type:       req.Type,
		Payload:    req.Payload,
		OccurredAt: time.Now(),
	}

	records, err := ctrl.Service.HandleEvent(c.UserContext(), event)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"event_id":   event.ID,
		"dispatched": len(records),
		"records":    records,
	})
}
