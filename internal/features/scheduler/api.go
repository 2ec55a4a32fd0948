package scheduler

import (
	"go-crm-automation/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type SchedulerApi struct {
	controller *SchedulerController
}

func NewSchedulerApi(controller *SchedulerController) api.Route {
	return &SchedulerApi{
		controller: controller,
	}
}

func (h *SchedulerApi) Setup(app *fiber.App) {
	group := app.Group("/api/scheduler/tasks")

	group.Get("/", h.controller.ListTasks)
	group.Get("/:id", h.controller.GetTask)
	group.Post("/", h.controller.CreateTask)
	group.Put("/:id", h.controller.UpdateTask)
	group.Delete("/:id", h.controller.DeleteTask)
	group.Patch("/:id/toggle", h.controller.ToggleTask)
	group.Post("/:id/run", h.controller.RunTask)
}
