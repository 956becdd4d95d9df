package model

import (
	"fmt"
	"math"
	"strconv"
)

// TotalMarginLabel 导出表汇总行标签
const TotalMarginLabel = "Total Margin"

// Allocation 单个零件的分配结果
type Allocation struct {
	PN       string  `json:"pn"`
	Quantity float64 `json:"quantity"` // 分配量（连续值）
	Margin   float64 `json:"margin"`   // 分配量 × 单位毛利
}

// ExportRow 导出表行；汇总行 Quantity 为空
type ExportRow struct {
	Label       string   `json:"label"`
	Quantity    *float64 `json:"quantity"`
	MarginValue float64  `json:"marginValue"`
}

// SolveResult 单次求解结果
type SolveResult struct {
	Solved      bool         `json:"solved"`
	Status      string       `json:"status"`
	Termination string       `json:"termination"`
	Objective   float64      `json:"objective"`
	Allocations []Allocation `json:"allocations"`
	TotalMargin float64      `json:"totalMargin"`
	Export      []ExportRow  `json:"export"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// Allocated 分配量大于 0 的条目
func (r *SolveResult) Allocated() []Allocation {
	out := make([]Allocation, 0, len(r.Allocations))
	for _, a := range r.Allocations {
		if a.Quantity > 0 {
			out = append(out, a)
		}
	}
	return out
}

// TotalQuantity 总分配量
func (r *SolveResult) TotalQuantity() float64 {
	total := 0.0
	for _, a := range r.Allocations {
		total += a.Quantity
	}
	return total
}

// QuantityOf 按零件号查询分配量
func (r *SolveResult) QuantityOf(pn string) (float64, bool) {
	for _, a := range r.Allocations {
		if a.PN == pn {
			return a.Quantity, true
		}
	}
	return 0, false
}

// Lines 交互展示用文本行
func (r *SolveResult) Lines() []string {
	lines := make([]string, 0, len(r.Allocations)+1)
	for _, a := range r.Allocated() {
		lines = append(lines, fmt.Sprintf("Part Number: %s = %s", a.PN, FormatNumber(a.Quantity)))
	}
	lines = append(lines, fmt.Sprintf("Total Margin: = %s", FormatNumber(r.TotalMargin)))
	return lines
}

// FormatNumber 保留至多 6 位小数并去掉末尾的 0
func FormatNumber(v float64) string {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		v = 0 // -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
