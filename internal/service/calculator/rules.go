package calculator

import (
	"fmt"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// ValidateItem 校验零件数据规则（不阻断求解，仅作为提示）
func ValidateItem(it model.Item) []string {
	errs := make([]string, 0, 4)

	if it.Order < 0 {
		errs = append(errs, fmt.Sprintf("%s: 订单量不能为负数", it.PN))
	}
	if it.Promise < 0 {
		errs = append(errs, fmt.Sprintf("%s: 承诺量不能为负数", it.PN))
	}
	if it.Promise > it.Order {
		errs = append(errs, fmt.Sprintf("%s: 承诺量超过订单量", it.PN))
	}
	if it.Sales > 0 && it.HPP > it.Sales {
		errs = append(errs, fmt.Sprintf("%s: 销货成本高于售价", it.PN))
	}

	return errs
}

// ValidateItems 批量校验
func ValidateItems(items []model.Item) []string {
	var errs []string
	for _, it := range items {
		errs = append(errs, ValidateItem(it)...)
	}
	return errs
}
