package table

import (
	"strings"
)

// Table 由 I/O 层读入的原始表格（首行为列名）
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New 创建表格，列名去除首尾空白
func New(columns []string, rows [][]string) *Table {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.TrimSpace(c)
	}
	return &Table{Columns: cols, Rows: rows}
}

// Index 返回列索引，不存在时返回 -1
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// HasColumn 是否存在指定列
func (t *Table) HasColumn(column string) bool {
	return t.Index(column) >= 0
}

// Len 数据行数
func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell 读取单元格，越界时返回空字符串
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}
