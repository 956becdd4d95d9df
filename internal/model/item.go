package model

// Item 候选零件（输入表中的一行）
type Item struct {
	PN         string `json:"pn"`         // 零件号（唯一标识）
	Quality    int    `json:"quality"`    // 质量评分
	Production int    `json:"production"` // 产能评分（列名 Pas 或 Production）
	Cost       int    `json:"cost"`       // 成本评分
	HPP        int    `json:"hpp"`        // 单位销货成本
	Sales      int    `json:"sales"`      // 单位售价
	Order      int    `json:"order"`      // 订单量上限，缺省 0
	Promise    int    `json:"promise"`    // 承诺最小量，缺省 0

	// 衍生字段
	Margin int     `json:"margin"` // Sales - HPP
	Rating float64 `json:"rating"` // 加权评分，作为目标函数系数
}

// TotalOrder 汇总订单量
func TotalOrder(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Order
	}
	return total
}

// TotalPromise 汇总承诺量
func TotalPromise(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Promise
	}
	return total
}
