package scheduler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SchedulerController struct {
	Service SchedulerService
}

func NewSchedulerController(service SchedulerService) *SchedulerController {
	return &SchedulerController{
		Service: service,
	}
}

// CreateTask godoc
// @Summary Create scheduled task
// @Description Create a new scheduled task
// @Tags scheduler
// @Accept json
// @Produce json
// @Param task body ScheduledTask true "Scheduled Task"
// @Success 201 {object} ScheduledTask
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/scheduler/tasks [post]
func (ctrl *SchedulerController) CreateTask(c *fiber.Ctx) error {
	var task ScheduledTask
	if err := c.BodyParser(&task); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body: " + err.Error()})
	}

	if err := ctrl.Service.CreateTask(c.UserContext(), &task); err != nil {
		if errors.Is(err, ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// GetTask godoc
// @Summary Get scheduled task
// @Tags scheduler
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} ScheduledTask
// @Failure 404 {object} map[string]interface{}
// @Router /api/scheduler/tasks/{id} [get]
func (ctrl *SchedulerController) GetTask(c *fiber.Ctx) error {
	task, err := ctrl.Service.GetTask(c.UserContext(), c.Params("id"))
	if err != nil || task == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	return c.JSON(task)
}

// ListTasks godoc
// @Summary List scheduled tasks
// @Tags scheduler
// @Produce json
// @Success 200 {array} ScheduledTask
// @Failure 500 {object} map[string]interface{}
// @Router /api/scheduler/tasks [get]
func (ctrl *SchedulerController) ListTasks(c *fiber.Ctx) error {
	tasks, err := ctrl.Service.ListTasks(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tasks)
}

// UpdateTask godoc
// @Summary Update scheduled task
// @Tags scheduler
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body ScheduledTask true "Scheduled Task"
// @Success 200 {object} ScheduledTask
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/scheduler/tasks/{id} [put]
func (ctrl *SchedulerController) UpdateTask(c *fiber.Ctx) error {
	var task ScheduledTask
	if err := c.BodyParser(&task); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body: " + err.Error()})
	}

	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}
	task.ID = oid

	if err := ctrl.Service.UpdateTask(c.UserContext(), &task); err != nil {
		if errors.Is(err, ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(task)
}

// DeleteTask godoc
// @Summary Delete scheduled task
// @Tags scheduler
// @Param id path string true "Task ID"
// @Success 204 {object} nil
// @Failure 500 {object} map[string]interface{}
// @Router /api/scheduler/tasks/{id} [delete]
func (ctrl *SchedulerController) DeleteTask(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleTask godoc
// @Summary Toggle scheduled task
// @Description Enable or disable a scheduled task
// @Tags scheduler
// @Accept json
// @Param id path string true "Task ID"
// @Param body body object true "{\"enabled\": bool}"
// @Success 204 {object} nil
// @Failure 400 {object} map[string]interface{}
// @Router /api/scheduler/tasks/{id}/toggle [patch]
func (ctrl *SchedulerController) ToggleTask(c *fiber.Ctx) error {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.ToggleTask(c.UserContext(), c.Params("id"), body.Enabled); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RunTask godoc
// @Summary Run scheduled task now
// @Description Dispatch the task immediately, bypassing the due-check
// @Tags scheduler
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} execution.Record
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/scheduler/tasks/{id}/run [post]
func (ctrl *SchedulerController) RunTask(c *fiber.Ctx) error {
	record, err := ctrl.Service.RunTaskNow(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(record)
}
