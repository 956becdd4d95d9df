package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// 创建测试用的零件数据
func createTestItems() []model.Item {
	return []model.Item{
		{PN: "PN-001", Quality: 90, Production: 80, Cost: 70, HPP: 100, Sales: 150},
		{PN: "PN-002", Quality: 60, Production: 100, Cost: 50, HPP: 40, Sales: 45},
		{PN: "PN-003", Quality: 0, Production: 0, Cost: 0, HPP: 10, Sales: 5},
	}
}

// TestMargin 测试毛利计算
func TestMargin(t *testing.T) {
	tests := []struct {
		name  string
		item  model.Item
		wants int
	}{
		{"正毛利", model.Item{HPP: 100, Sales: 150}, 50},
		{"零毛利", model.Item{HPP: 20, Sales: 20}, 0},
		{"负毛利", model.Item{HPP: 10, Sales: 5}, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wants, Margin(tt.item))
		})
	}
}

// TestRating 测试加权评分
func TestRating(t *testing.T) {
	tests := []struct {
		name  string
		item  model.Item
		wants float64
	}{
		{"全部为零", model.Item{}, 0},
		{"仅质量", model.Item{Quality: 10}, 4},
		{"仅产能", model.Item{Production: 10}, 3},
		{"仅成本", model.Item{Cost: 10}, 3},
		{"组合", model.Item{Quality: 90, Production: 80, Cost: 70}, 36 + 24 + 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wants, Rating(tt.item, model.DefaultWeights()), 1e-9)
		})
	}
}

// TestRatingRewardsCost 记录现状：默认权重下成本分越高评分越高
// 成本是否应作为惩罚项尚未确认，这里只固定现有口径
func TestRatingRewardsCost(t *testing.T) {
	w := model.DefaultWeights()
	cheap := model.Item{Quality: 50, Production: 50, Cost: 10}
	expensive := model.Item{Quality: 50, Production: 50, Cost: 90}

	assert.Greater(t, Rating(expensive, w), Rating(cheap, w))

	// 配置为负权重后成本变为惩罚项
	w.Cost = -0.3
	assert.Less(t, Rating(expensive, w), Rating(cheap, w))
}

// TestEngineCalculate 测试批量写入衍生字段
func TestEngineCalculate(t *testing.T) {
	items := createTestItems()
	engine := NewEngine(model.DefaultWeights())
	engine.Calculate(items)

	require.Len(t, items, 3)
	assert.Equal(t, 50, items[0].Margin)
	assert.InDelta(t, 81.0, items[0].Rating, 1e-9)
	assert.Equal(t, 5, items[1].Margin)
	assert.InDelta(t, 69.0, items[1].Rating, 1e-9)
	assert.Equal(t, -5, items[2].Margin)
	assert.Zero(t, items[2].Rating)
}
