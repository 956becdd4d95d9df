package excel_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nicksanjaya/optimasi-order-selection/internal/model"
	"github.com/nicksanjaya/optimasi-order-selection/internal/service/excel"
)

func sampleResult() *model.SolveResult {
	a, b := 3.0, 5.0
	return &model.SolveResult{
		Solved:      true,
		TotalMargin: 30,
		Export: []model.ExportRow{
			{Label: "A", Quantity: &a, MarginValue: 15},
			{Label: "B", Quantity: &b, MarginValue: 15},
			{Label: model.TotalMarginLabel, MarginValue: 30},
		},
	}
}

func TestExporter_Export(t *testing.T) {
	f, err := excel.NewExporter("").Export(sampleResult())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(excel.DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, excel.ExportHeaders, rows[0])
	assert.Equal(t, []string{"A", "3", "15"}, rows[1])
	// 汇总行数量列为空
	assert.Equal(t, []string{model.TotalMarginLabel, "", "30"}, rows[3])
}

func TestExporter_BytesRoundTrip(t *testing.T) {
	data, err := excel.NewExporter("Allocation").Bytes(sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Allocation"}, f.GetSheetList())
}

func TestExporter_SaveAs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.xlsx")
	require.NoError(t, excel.NewExporter("").SaveAs(sampleResult(), path))

	tbl, err := excel.ReadTableFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	err = excel.NewExporter("").SaveAs(sampleResult(), filepath.Join(t.TempDir(), "missing", "dir", "x.xlsx"))
	var ioErr *model.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="allocation.xlsx"`, excel.ContentDisposition("allocation.xlsx"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", excel.ContentType)
}
