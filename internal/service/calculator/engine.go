package calculator

import (
	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

// Engine 衍生指标计算引擎
type Engine struct {
	weights model.Weights
}

// NewEngine 创建计算引擎
func NewEngine(weights model.Weights) *Engine {
	return &Engine{weights: weights}
}

// Weights 当前评分权重
func (e *Engine) Weights() model.Weights {
	return e.weights
}

// Calculate 为每个零件写入 Margin 与 Rating
func (e *Engine) Calculate(items []model.Item) {
	ApplyDerived(items, e.weights)
}

// ApplyDerived 为每个零件写入 Margin 与 Rating
func ApplyDerived(items []model.Item, w model.Weights) {
	for i := range items {
		items[i].Margin = Margin(items[i])
		items[i].Rating = Rating(items[i], w)
	}
}

// Margin 单位毛利 = 售价 - 销货成本
func Margin(it model.Item) int {
	return it.Sales - it.HPP
}

// Rating 加权评分 = wQ·Quality + wP·Production + wC·Cost
// 默认权重下 Cost 为正向加分，沿用原口径
func Rating(it model.Item, w model.Weights) float64 {
	return w.Quality*float64(it.Quality) +
		w.Production*float64(it.Production) +
		w.Cost*float64(it.Cost)
}
