package optimizer

import (
	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// Project 将求解值映射回零件
// values 与 items 一一对应；导出行只包含分配量大于 0 的零件，末尾追加汇总行
func Project(items []model.Item, values []float64) *model.SolveResult {
	result := &model.SolveResult{
		Solved:      true,
		Allocations: make([]model.Allocation, len(items)),
		Export:      make([]model.ExportRow, 0, len(items)+1),
	}

	total := 0.0
	for i, it := range items {
		x := 0.0
		if i < len(values) {
			x = values[i]
		}
		margin := x * float64(it.Margin)
		result.Allocations[i] = model.Allocation{PN: it.PN, Quantity: x, Margin: margin}
		total += margin

		if x > 0 {
			qty := x
			result.Export = append(result.Export, model.ExportRow{
				Label:       it.PN,
				Quantity:    &qty,
				MarginValue: margin,
			})
		}
	}

	result.TotalMargin = total
	result.Export = append(result.Export, model.ExportRow{
		Label:       model.TotalMarginLabel,
		MarginValue: total,
	})
	return result
}
