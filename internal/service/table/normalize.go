package table

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

var (
	errNotFinite  = errors.New("value is not a finite number")
	errOutOfRange = errors.New("value out of range")
)

// Normalize 校验必需列并将数值列转换为整数
// 缺列返回 *model.SchemaError，数值无法转换返回 *model.TypeCoercionError
func Normalize(t *Table, schema model.Schema) ([]model.Item, error) {
	for _, col := range schema.Required {
		if !t.HasColumn(col) {
			return nil, &model.SchemaError{Attribute: col}
		}
	}

	pnIdx := t.Index(model.ColumnPN)
	qualityIdx := t.Index(model.ColumnQuality)
	productionIdx := t.Index(schema.ProductionColumn)
	costIdx := t.Index(model.ColumnCost)
	hppIdx := t.Index(model.ColumnHPP)
	salesIdx := t.Index(model.ColumnSales)
	orderIdx := t.Index(model.ColumnOrder)
	promiseIdx := t.Index(model.ColumnPromise)

	items := make([]model.Item, 0, t.Len())
	// 按归一化后的零件号去重，与逐项数量的对齐口径一致
	seen := make(map[string]string, t.Len())

	for r := 0; r < t.Len(); r++ {
		// Excel 行号：表头为第 1 行
		rowNum := r + 2

		pn := t.Cell(r, pnIdx)
		if pn == "" {
			return nil, &model.SchemaError{Attribute: model.ColumnPN, Reason: "empty value at row " + strconv.Itoa(rowNum)}
		}
		key := model.FoldPN(pn)
		if prev, ok := seen[key]; ok {
			reason := "duplicate value " + strconv.Quote(pn)
			if prev != pn {
				reason += " (same as " + strconv.Quote(prev) + " ignoring case)"
			}
			return nil, &model.SchemaError{Attribute: model.ColumnPN, Reason: reason}
		}
		seen[key] = pn

		conv := rowConverter{t: t, row: r, rowNum: rowNum}
		it := model.Item{
			PN:         pn,
			Quality:    conv.required(model.ColumnQuality, qualityIdx),
			Production: conv.required(schema.ProductionColumn, productionIdx),
			Cost:       conv.required(model.ColumnCost, costIdx),
		}
		if schema.HasMargin() {
			it.HPP = conv.required(model.ColumnHPP, hppIdx)
			it.Sales = conv.required(model.ColumnSales, salesIdx)
		} else {
			// 基础结构下 HPP/Sales 可选
			it.HPP = conv.optional(model.ColumnHPP, hppIdx)
			it.Sales = conv.optional(model.ColumnSales, salesIdx)
		}
		it.Order = conv.optional(model.ColumnOrder, orderIdx)
		if schema.HasPromise() {
			it.Promise = conv.optional(model.ColumnPromise, promiseIdx)
		}

		if conv.err != nil {
			return nil, conv.err
		}
		items = append(items, it)
	}

	return items, nil
}

// rowConverter 按行转换，记录首个错误
type rowConverter struct {
	t      *Table
	row    int
	rowNum int
	err    error
}

func (c *rowConverter) required(column string, idx int) int {
	return c.convert(column, idx, false)
}

func (c *rowConverter) optional(column string, idx int) int {
	if idx < 0 {
		return 0
	}
	return c.convert(column, idx, true)
}

func (c *rowConverter) convert(column string, idx int, allowEmpty bool) int {
	if c.err != nil {
		return 0
	}
	raw := c.t.Cell(c.row, idx)
	if raw == "" && allowEmpty {
		return 0
	}
	v, err := ParseInt(raw)
	if err != nil {
		c.err = &model.TypeCoercionError{Row: c.rowNum, Attribute: column, Value: raw, Err: err}
		return 0
	}
	return v
}

// ParseInt 将单元格文本转换为整数
// 去除千分位分隔符，小数部分向零截断，绝对值不超过 int32 范围
func ParseInt(raw string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return 0, errOutOfRange
		}
		return int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	if math.Abs(f) > math.MaxInt32 {
		return 0, errOutOfRange
	}
	return int(math.Trunc(f)), nil
}
