package execution

import (
	"github.com/gofiber/fiber/v2"
)

type ExecutionController struct {
	Service ExecutionService
}

func NewExecutionController(service ExecutionService) *ExecutionController {
	return &ExecutionController{
		Service: service,
	}
}

func (ctrl *ExecutionController) filterFromQuery(c *fiber.Ctx) Filter {
	return Filter{
		RuleID: c.Query("rule_id"),
		TaskID: c.Query("task_id"),
		Status: Status(c.Query("status")),
		Limit:  int64(c.QueryInt("limit", 100)),
	}
}

// ListExecutions godoc
// @Summary List execution records
// @Description List execution records, newest first, optionally filtered by source or status
// @Tags executions
// @Produce json
// @Param rule_id query string false "Filter by rule ID"
// @Param task_id query string false "Filter by scheduled task ID"
// @Param status query string false "Success or Failed"
// @Param limit query int false "Max results (default 100)"
// @Success 200 {array} Record
// @Failure 500 {object} map[string]interface{}
// @Router /api/executions [get]
func (ctrl *ExecutionController) ListExecutions(c *fiber.Ctx) error {
	records, err := ctrl.Service.List(c.UserContext(), ctrl.filterFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

// ExportExecutions godoc
// @Summary Export execution records
// @Description Export matching execution records as an xlsx workbook
// @Tags executions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 500 {object} map[string]interface{}
// @Router /api/executions/export [get]
func (ctrl *ExecutionController) ExportExecutions(c *fiber.Ctx) error {
	data, filename, err := ctrl.Service.Export(c.UserContext(), ctrl.filterFromQuery(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Disposition", "attachment; filename="+filename)
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
