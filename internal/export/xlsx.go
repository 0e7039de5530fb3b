package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/document"
)

// UnifiedXLSX writes the unified projection as an XLSX workbook. Same
// eligibility and row semantics as UnifiedCSV.
func UnifiedXLSX(docs []*document.Document, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	rows := unifiedRows(docs, logger)
	if len(rows) == 0 {
		return nil, common.ErrNoSelection
	}

	f := excelize.NewFile()
	const sheet = "Unified"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		logger.Warn("export.xlsx.delete_default_sheet", "error", err)
	}

	for i, h := range UnifiedHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen the text-heavy columns
	_ = f.SetColWidth(sheet, "A", "A", 12) // order_date
	_ = f.SetColWidth(sheet, "B", "B", 28) // customer
	_ = f.SetColWidth(sheet, "C", "C", 12) // delivery_date
	_ = f.SetColWidth(sheet, "D", "D", 28) // destination
	_ = f.SetColWidth(sheet, "E", "E", 36) // product_name
	_ = f.SetColWidth(sheet, "F", "G", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
