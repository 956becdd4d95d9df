package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

func TestRulePromiseNotExceedOrder(t *testing.T) {
	errs := ValidateItem(model.Item{PN: "A", Order: 5, Promise: 8})
	assert.Contains(t, errs, "A: 承诺量超过订单量")
}

func TestRuleNegativeQuantities(t *testing.T) {
	errs := ValidateItem(model.Item{PN: "B", Order: -1, Promise: -2})
	assert.Contains(t, errs, "B: 订单量不能为负数")
	assert.Contains(t, errs, "B: 承诺量不能为负数")
}

func TestRuleValidItemHasNoWarnings(t *testing.T) {
	errs := ValidateItems([]model.Item{
		{PN: "A", Order: 10, Promise: 2, HPP: 5, Sales: 10},
		{PN: "B", Order: 5},
	})
	assert.Empty(t, errs)
}
