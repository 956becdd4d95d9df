package model

import (
	"fmt"
	"strings"
)

// 输入表列名
const (
	ColumnPN         = "PN"
	ColumnQuality    = "Quality"
	ColumnPas        = "Pas"
	ColumnProduction = "Production"
	ColumnCost       = "Cost"
	ColumnHPP        = "HPP"
	ColumnSales      = "Sales"
	ColumnOrder      = "Order"
	ColumnPromise    = "Promise"
)

// SchemaKind 输入表结构类型
type SchemaKind string

const (
	SchemaAuto    SchemaKind = "auto"    // 按列自动识别
	SchemaBasic   SchemaKind = "basic"   // 仅评分列，无毛利
	SchemaMargin  SchemaKind = "margin"  // 评分 + HPP/Sales
	SchemaPromise SchemaKind = "promise" // 评分 + HPP/Sales + Promise 下限
)

// ParseSchemaKind 解析结构类型，空字符串视为 auto
func ParseSchemaKind(s string) (SchemaKind, error) {
	switch SchemaKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemaAuto:
		return SchemaAuto, nil
	case SchemaBasic:
		return SchemaBasic, nil
	case SchemaMargin:
		return SchemaMargin, nil
	case SchemaPromise:
		return SchemaPromise, nil
	default:
		return "", fmt.Errorf("unknown schema kind: %q", s)
	}
}

// Schema 在求解前确定一次的表结构描述
type Schema struct {
	Kind             SchemaKind `json:"kind"`
	ProductionColumn string     `json:"productionColumn"` // Pas 或 Production
	Required         []string   `json:"required"`
}

// HasMargin 是否包含毛利列
func (s Schema) HasMargin() bool {
	return s.Kind == SchemaMargin || s.Kind == SchemaPromise
}

// HasPromise 是否启用承诺下限约束
func (s Schema) HasPromise() bool {
	return s.Kind == SchemaPromise
}

// ResolveSchema 根据表头和期望类型确定结构
// auto: 存在 Promise 列时取 promise，否则取 margin
func ResolveSchema(columns []string, kind SchemaKind) Schema {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = true
	}

	if kind == SchemaAuto || kind == "" {
		if present[ColumnPromise] {
			kind = SchemaPromise
		} else {
			kind = SchemaMargin
		}
	}

	// 旧表使用 Pas，新表使用 Production；都没有时按 Pas 报缺失
	production := ColumnPas
	if !present[ColumnPas] && present[ColumnProduction] {
		production = ColumnProduction
	}

	required := []string{ColumnPN, ColumnQuality, production, ColumnCost}
	switch kind {
	case SchemaMargin:
		required = append(required, ColumnHPP, ColumnSales)
	case SchemaPromise:
		required = append(required, ColumnHPP, ColumnSales, ColumnPromise)
	}

	return Schema{
		Kind:             kind,
		ProductionColumn: production,
		Required:         required,
	}
}
