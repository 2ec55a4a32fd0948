package automation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AutomationController struct {
	Service AutomationService
}

func NewAutomationController(service AutomationService) *AutomationController {
	return &AutomationController{
		Service: service,
	}
}

// CreateRule godoc
// @Summary Create automation rule
// @Description Create a new automation rule
// @Tags automation
// @Accept json
// @Produce json
// @Param rule body AutomationRule true "Automation Rule"
// @Success 201 {object} AutomationRule
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/rules [post]
func (ctrl *AutomationController) CreateRule(c *fiber.Ctx) error {
	var rule AutomationRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body: " + err.Error()})
	}

	if err := ctrl.Service.CreateRule(c.UserContext(), &rule); err != nil {
		if errors.Is(err, ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

// GetRule godoc
// @Summary Get automation rule
// @Description Get an automation rule by ID
// @Tags automation
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} AutomationRule
// @Failure 404 {object} map[string]interface{}
// @Router /api/automation/rules/{id} [get]
func (ctrl *AutomationController) GetRule(c *fiber.Ctx) error {
	id := c.Params("id")
	rule, err := ctrl.Service.GetRule(c.UserContext(), id)
	if err != nil || rule == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rule not found"})
	}
	return c.JSON(rule)
}

// ListRules godoc
// @Summary List automation rules
// @Description List all automation rules in ascending id order
// @Tags automation
// @Produce json
// @Success 200 {array} AutomationRule
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/rules [get]
func (ctrl *AutomationController) ListRules(c *fiber.Ctx) error {
	rules, err := ctrl.Service.ListRules(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rules)
}

// UpdateRule godoc
// @Summary Update automation rule
// @Description Update an existing automation rule
// @Tags automation
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body AutomationRule true "Automation Rule"
// @Success 200 {object} AutomationRule
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/rules/{id} [put]
func (ctrl *AutomationController) UpdateRule(c *fiber.Ctx) error {
	var rule AutomationRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body: " + err.Error()})
	}

	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule ID"})
	}
	rule.ID = oid

	if err := ctrl.Service.UpdateRule(c.UserContext(), &rule); err != nil {
		if errors.Is(err, ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(rule)
}

// DeleteRule godoc
// @Summary Delete automation rule
// @Description Delete an automation rule by ID; past executions remain in the log
// @Tags automation
// @Param id path string true "Rule ID"
// @Success 204 {object} nil
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/rules/{id} [delete]
func (ctrl *AutomationController) DeleteRule(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctrl.Service.DeleteRule(c.UserContext(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleRule godoc
// @Summary Toggle automation rule
// @Description Enable or disable a rule
// @Tags automation
// @Accept json
// @Param id path string true "Rule ID"
// @Param body body object true "{\"enabled\": bool}"
// @Success 204 {object} nil
// @Failure 400 {object} map[string]interface{}
// @Router /api/automation/rules/{id}/toggle [patch]
func (ctrl *AutomationController) ToggleRule(c *fiber.Ctx) error {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.ToggleRule(c.UserContext(), c.Params("id"), body.Enabled); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
