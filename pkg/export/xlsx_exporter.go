package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Timetable"

// XLSXExporter renders a Dataset into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an Excel exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes an optional merged title row, a header row and the data rows.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("xlsx"); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	lastCol, err := excelize.ColumnNumberToName(len(data.Headers))
	if err != nil {
		return nil, fmt.Errorf("resolve column: %w", err)
	}
	f.SetColWidth(xlsxSheet, "A", "A", 12)
	if len(data.Headers) > 1 {
		f.SetColWidth(xlsxSheet, "B", lastCol, 20)
	}

	styles := newXLSXStyles(f)
	row := 1
	if data.Title != "" {
		f.SetCellValue(xlsxSheet, "A1", data.Title)
		f.MergeCell(xlsxSheet, "A1", lastCol+"1")
		f.SetCellStyle(xlsxSheet, "A1", "A1", styles.title)
		row++
	}

	for i, header := range data.Headers {
		name, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(xlsxSheet, name, header)
		f.SetCellStyle(xlsxSheet, name, name, styles.header)
	}
	row++

	for _, cells := range data.Rows {
		lines := 1
		for i, cell := range cells {
			name, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(xlsxSheet, name, cell.Text)
			style, err := styles.forFill(cell.Fill)
			if err != nil {
				return nil, err
			}
			f.SetCellStyle(xlsxSheet, name, name, style)
			if n := strings.Count(cell.Text, "\n") + 1; n > lines {
				lines = n
			}
		}
		f.SetRowHeight(xlsxSheet, row, float64(lines)*15)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

type xlsxStyles struct {
	f      *excelize.File
	title  int
	header int
	fills  map[string]int
}

func newXLSXStyles(f *excelize.File) *xlsxStyles {
	title, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	header, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    gridBorder(),
	})
	return &xlsxStyles{f: f, title: title, header: header, fills: make(map[string]int)}
}

func (s *xlsxStyles) forFill(fill string) (int, error) {
	if id, ok := s.fills[fill]; ok {
		return id, nil
	}
	style := &excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    gridBorder(),
	}
	if _, _, _, ok := parseHex(fill); ok {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1}
	}
	id, err := s.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create cell style: %w", err)
	}
	s.fills[fill] = id
	return id, nil
}

func gridBorder() []excelize.Border {
	sides := []string{"left", "top", "right", "bottom"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#CBD5E1", Style: 1}
	}
	return borders
}
