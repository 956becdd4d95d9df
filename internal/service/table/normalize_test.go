package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
)

func marginTable() *Table {
	return New(
		[]string{"PN", "Quality", "Pas", "Cost", "HPP", "Sales"},
		[][]string{
			{"A", "90", "80", "70", "100", "150"},
			{"B", "60.9", "1,000", "50", "40", "45"},
		},
	)
}

func TestNormalize_MarginSchema(t *testing.T) {
	tbl := marginTable()
	schema := model.ResolveSchema(tbl.Columns, model.SchemaAuto)
	require.Equal(t, model.SchemaMargin, schema.Kind)

	items, err := Normalize(tbl, schema)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, model.Item{PN: "A", Quality: 90, Production: 80, Cost: 70, HPP: 100, Sales: 150}, items[0])
	// 小数截断、千分位去除
	assert.Equal(t, 60, items[1].Quality)
	assert.Equal(t, 1000, items[1].Production)
	// Order/Promise 缺列时为 0
	assert.Zero(t, items[1].Order)
	assert.Zero(t, items[1].Promise)
}

func TestNormalize_MissingCostColumn(t *testing.T) {
	tbl := New(
		[]string{"PN", "Quality", "Pas", "HPP", "Sales"},
		[][]string{{"A", "1", "2", "3", "4"}},
	)
	_, err := Normalize(tbl, model.ResolveSchema(tbl.Columns, model.SchemaAuto))

	var schemaErr *model.SchemaError
	require.True(t, errors.As(err, &schemaErr), "want SchemaError, got %v", err)
	assert.Equal(t, "Cost", schemaErr.Attribute)
	assert.Equal(t, "missing required column: Cost", err.Error())
}

func TestNormalize_FirstMissingColumnReported(t *testing.T) {
	tbl := New([]string{"PN"}, nil)
	_, err := Normalize(tbl, model.ResolveSchema(tbl.Columns, model.SchemaMargin))

	var schemaErr *model.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "Quality", schemaErr.Attribute)
}

func TestNormalize_ProductionAlias(t *testing.T) {
	tbl := New(
		[]string{" PN ", "Quality", "Production", "Cost", "HPP", "Sales", "Order"},
		[][]string{{"X1", "1", "7", "3", "4", "9", ""}},
	)
	schema := model.ResolveSchema(tbl.Columns, model.SchemaAuto)
	assert.Equal(t, "Production", schema.ProductionColumn)

	items, err := Normalize(tbl, schema)
	require.NoError(t, err)
	assert.Equal(t, 7, items[0].Production)
	assert.Zero(t, items[0].Order)
}

func TestNormalize_NonNumericValue(t *testing.T) {
	tbl := New(
		[]string{"PN", "Quality", "Pas", "Cost", "HPP", "Sales"},
		[][]string{
			{"A", "1", "2", "3", "4", "5"},
			{"B", "1", "2", "cheap", "4", "5"},
		},
	)
	_, err := Normalize(tbl, model.ResolveSchema(tbl.Columns, model.SchemaAuto))

	var convErr *model.TypeCoercionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 3, convErr.Row)
	assert.Equal(t, "Cost", convErr.Attribute)
	assert.Equal(t, "cheap", convErr.Value)
}

func TestNormalize_EmptyRequiredValue(t *testing.T) {
	tbl := New(
		[]string{"PN", "Quality", "Pas", "Cost", "HPP", "Sales"},
		[][]string{{"A", "1", "", "3", "4", "5"}},
	)
	_, err := Normalize(tbl, model.ResolveSchema(tbl.Columns, model.SchemaAuto))

	var convErr *model.TypeCoercionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "Pas", convErr.Attribute)
}

func TestNormalize_PromiseSchema(t *testing.T) {
	tbl := New(
		[]string{"PN", "Quality", "Pas", "Cost", "HPP", "Sales", "Order", "Promise"},
		[][]string{
			{"A", "1", "2", "3", "4", "5", "10", "2"},
			{"B", "1", "2", "3", "4", "5", "5", ""},
		},
	)
	schema := model.ResolveSchema(tbl.Columns, model.SchemaAuto)
	require.Equal(t, model.SchemaPromise, schema.Kind)

	items, err := Normalize(tbl, schema)
	require.NoError(t, err)
	assert.Equal(t, 10, items[0].Order)
	assert.Equal(t, 2, items[0].Promise)
	assert.Zero(t, items[1].Promise)
}

func TestNormalize_BasicSchemaIgnoresPromise(t *testing.T) {
	tbl := New(
		[]string{"PN", "Quality", "Pas", "Cost", "Promise"},
		[][]string{{"A", "1", "2", "3", "9"}},
	)
	items, err := Normalize(tbl, model.ResolveSchema(tbl.Columns, model.SchemaBasic))
	require.NoError(t, err)
	assert.Zero(t, items[0].Promise)
	assert.Zero(t, items[0].HPP)
}

func TestNormalize_DuplicatePN(t *testing.T) {
	tbl := New(
		[]string{"PN", "Quality", "Pas", "Cost", "HPP", "Sales"},
		[][]string{
			{"A", "1", "2", "3", "4", "5"},
			{"A", "1", "2", "3", "4", "5"},
		},
	)
	_, err := Normalize(tbl, model.ResolveSchema(tbl.Columns, model.SchemaAuto))

	var schemaErr *model.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "PN", schemaErr.Attribute)
}

// 逐项数量按零件号忽略大小写对齐，仅大小写不同的零件号视为重复
func TestNormalize_DuplicatePNIgnoringCase(t *testing.T) {
	tbl := New(
		[]string{"PN", "Quality", "Pas", "Cost", "HPP", "Sales", "Order"},
		[][]string{
			{"ab", "1", "2", "3", "4", "5", "0"},
			{"AB", "1", "2", "3", "4", "5", "0"},
		},
	)
	_, err := Normalize(tbl, model.ResolveSchema(tbl.Columns, model.SchemaAuto))

	var schemaErr *model.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "PN", schemaErr.Attribute)
	assert.Contains(t, schemaErr.Reason, `"AB"`)
	assert.Contains(t, schemaErr.Reason, `"ab"`)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"42", 42, false},
		{" 7 ", 7, false},
		{"3.99", 3, false},
		{"-3.99", -3, false},
		{"12,500", 12500, false},
		{"1e3", 1000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		// 整数与小数使用同一范围
		{"2147483647", 2147483647, false},
		{"-2147483648", -2147483648, false},
		{"3000000000", 0, true},
		{"3000000000.5", 0, true},
		{"-3000000000", 0, true},
		{"3,000,000,000", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseInt(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
