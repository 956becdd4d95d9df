package excel

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/table"
)

var (
	errNoFile     = errors.New("no file loaded")
	errEmptySheet = errors.New("empty sheet")
)

// Parser Excel 解析器
type Parser struct {
	file *excelize.File
	name string
}

// NewParser 创建解析器，name 用于错误信息（通常为上传文件名）
func NewParser(name string) *Parser {
	return &Parser{name: name}
}

// LoadFile 加载 Excel 文件
func (p *Parser) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return &model.IOError{Op: "open workbook", Path: p.name, Err: err}
	}
	p.file = file
	return nil
}

// Close 释放工作簿
func (p *Parser) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

// Sheets 工作表列表
func (p *Parser) Sheets() []string {
	if p.file == nil {
		return nil
	}
	return p.file.GetSheetList()
}

// ReadTable 读取工作表为内存表
//   - sheet 为空时读取第一个工作表
//   - 第一个非空行作为表头
//   - 读取原始单元格值，不套用数字格式
//   - 整行为空的数据行被丢弃
func (p *Parser) ReadTable(sheet string) (*table.Table, error) {
	if p.file == nil {
		return nil, &model.IOError{Op: "read table", Path: p.name, Err: errNoFile}
	}

	if sheet == "" {
		sheets := p.file.GetSheetList()
		if len(sheets) == 0 {
			return nil, &model.IOError{Op: "read table", Path: p.name, Err: errEmptySheet}
		}
		sheet = sheets[0]
	}

	rows, err := p.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &model.IOError{Op: fmt.Sprintf("read sheet %q", sheet), Path: p.name, Err: err}
	}

	headerAt := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, &model.IOError{Op: fmt.Sprintf("read sheet %q", sheet), Path: p.name, Err: errEmptySheet}
	}

	data := make([][]string, 0, len(rows)-headerAt-1)
	for _, row := range rows[headerAt+1:] {
		if blankRow(row) {
			continue
		}
		data = append(data, row)
	}

	return table.New(rows[headerAt], data), nil
}

// ReadTable 从 reader 读取工作表
func ReadTable(r io.Reader, sheet string) (*table.Table, error) {
	p := NewParser("")
	if err := p.LoadFile(r); err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ReadTable(sheet)
}

// ReadTableFile 从文件读取工作表
func ReadTableFile(path, sheet string) (*table.Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &model.IOError{Op: "open workbook", Path: path, Err: err}
	}
	p := &Parser{file: file, name: path}
	defer p.Close()
	return p.ReadTable(sheet)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
