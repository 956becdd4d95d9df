package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// ContentType 导出文件 MIME 类型
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultSheet 默认导出工作表名
const DefaultSheet = "Result"

// ExportHeaders 导出表头
var ExportHeaders = []string{"Part Number", "Quantity (pcs)", "Margin Value"}

// Exporter Excel 导出器
type Exporter struct {
	sheet string
}

// NewExporter 创建导出器
func NewExporter(sheet string) *Exporter {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Exporter{sheet: sheet}
}

// Export 导出分配结果：正分配行 + 汇总行（数量为空）
func (e *Exporter) Export(result *model.SolveResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", e.sheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(e.sheet, "A1", &ExportHeaders); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetRowStyle(e.sheet, 1, 1, headerStyle)

	for i, row := range result.Export {
		r := i + 2
		f.SetCellValue(e.sheet, fmt.Sprintf("A%d", r), row.Label)
		if row.Quantity != nil {
			f.SetCellValue(e.sheet, fmt.Sprintf("B%d", r), *row.Quantity)
		}
		f.SetCellValue(e.sheet, fmt.Sprintf("C%d", r), row.MarginValue)
	}

	// 汇总行加粗
	if n := len(result.Export); n > 0 && result.Export[n-1].Quantity == nil {
		totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err == nil {
			f.SetRowStyle(e.sheet, n+1, n+1, totalStyle)
		}
	}

	f.SetColWidth(e.sheet, "A", "A", 24)
	f.SetColWidth(e.sheet, "B", "C", 16)

	return f, nil
}

// Bytes 导出为 xlsx 字节
func (e *Exporter) Bytes(result *model.SolveResult) ([]byte, error) {
	f, err := e.Export(result)
	if err != nil {
		return nil, &model.IOError{Op: "build export", Err: err}
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, &model.IOError{Op: "write export", Err: err}
	}
	return buf.Bytes(), nil
}

// SaveAs 导出到文件
func (e *Exporter) SaveAs(result *model.SolveResult, path string) error {
	f, err := e.Export(result)
	if err != nil {
		return &model.IOError{Op: "build export", Path: path, Err: err}
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return &model.IOError{Op: "save export", Path: path, Err: err}
	}
	return nil
}

// ContentDisposition 下载响应头
func ContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
