package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{"ID", "Rule ID", "Task ID", "Status", "Error", "Duration (ms)", "Timestamp", "Metadata"}

// Export renders matching execution records into an xlsx workbook.
func (s *ExecutionServiceImpl) Export(ctx context.Context, filter Filter) ([]byte, string, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Executions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, record := range records {
		ruleID := ""
		if record.RuleID != nil {
			ruleID = record.RuleID.Hex()
		}
		taskID := ""
		if record.TaskID != nil {
			taskID = record.TaskID.Hex()
		}

		values := []interface{}{
			record.ID.Hex(),
			ruleID,
			taskID,
			string(record.Status),
			record.Error,
			record.DurationMs,
			record.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%v", record.Metadata),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("executions_%s.xlsx", time.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}
