package export

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLen = 31

// XLSXExporter renders Dataset records into a single-sheet workbook with a
// bold, filterable header row.
type XLSXExporter struct{}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces the workbook bytes. Cells holding whole numbers are written
// as numbers so spreadsheets can sort and sum them.
func (e *XLSXExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := sheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range data.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	widths := make([]int, len(data.Headers))
	for i, header := range data.Headers {
		widths[i] = utf8.RuneCountInString(header) + 2
	}

	for r, row := range data.Rows {
		for col, header := range data.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return nil, err
			}
			value := row[header]
			if n, convErr := strconv.Atoi(value); convErr == nil {
				err = f.SetCellValue(sheet, cell, n)
			} else {
				err = f.SetCellStr(sheet, cell, value)
			}
			if err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
			if l := utf8.RuneCountInString(value) + 2; l > widths[col] {
				widths[col] = l
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(data.Headers))
	if err != nil {
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", last+"1", style)
	}
	_ = f.AutoFilter(sheet, "A1:"+last+"1", nil)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, w := range widths {
		if w > 40 {
			w = 40
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetColWidth(sheet, col, col, float64(w))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName strips characters Excel rejects and caps the length.
func sheetName(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if cleaned == "" {
		return "Sheet1"
	}
	if utf8.RuneCountInString(cleaned) > maxSheetNameLen {
		cleaned = string([]rune(cleaned)[:maxSheetNameLen])
	}
	return cleaned
}
