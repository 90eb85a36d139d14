package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNormalizeHeader(t *testing.T) {
	for _, h := range []string{"Asset Number", "asset_number", "assetNumber", " ASSET-NUMBER "} {
		assert.Equal(t, "assetnumber", NormalizeHeader(h), h)
	}
	assert.Equal(t, "name", NormalizeHeader("\ufeffName"))
}

func TestReadCSV(t *testing.T) {
	data := "Asset Number,Name,Type,Line\nM-1,Overlock 1,overlock,L1\n\n, , ,\nM-2,Flatlock,flatlock,\n"

	rows, err := Read("machines.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "M-1", rows[0].Get("assetnumber"))
	assert.Equal(t, "L1", rows[0].Get("line"))
	assert.Equal(t, 5, rows[1].Line)
	assert.Equal(t, "", rows[1].Get("line"))
}

func TestReadCSVShortRows(t *testing.T) {
	rows, err := Read("lines.csv", strings.NewReader("name,code,location\nCutting,C1\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "C1", rows[0].Get("code"))
	assert.Equal(t, "", rows[0].Get("location"))
}

func TestReadEmpty(t *testing.T) {
	_, err := Read("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Code", "Target Units Per Hour"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Sewing A", "SA", 120}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Sewing B", "SB", "fast"}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	rows, err := Read("lines.XLSX", &buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	reqs, errs := Lines(rows)
	require.Len(t, reqs, 2)
	assert.Equal(t, "SA", reqs[0].Code)
	assert.Equal(t, 120, reqs[0].TargetUnitsPerHour)

	require.False(t, errs.Empty())
	assert.Equal(t, 3, errs.Rows[0].Line)
	assert.Equal(t, "targetUnitsPerHour", errs.Rows[0].Field)
}

func TestMachinesMapping(t *testing.T) {
	rows := []Row{
		{Line: 2, Values: map[string]string{"assetnumber": " M-9 ", "name": "Press", "productionlineid": "L2", "status": "Maintenance"}},
		{Line: 3, Values: map[string]string{"assetnumber": "M-10", "name": "Cutter", "line": "L3"}},
	}
	reqs := Machines(rows)
	require.Len(t, reqs, 2)
	assert.Equal(t, "M-9", reqs[0].AssetNumber)
	assert.Equal(t, "L2", reqs[0].ProductionLineID)
	assert.Equal(t, "maintenance", reqs[0].Status)
	assert.Equal(t, "L3", reqs[1].ProductionLineID)
}

func TestErrorMessage(t *testing.T) {
	e := &Error{}
	assert.True(t, e.Empty())
	e.Add(4, "name", "is required")
	assert.Equal(t, "import rejected: line 4: name is required", e.Error())
	e.Add(5, "code", "is required")
	assert.Equal(t, "import rejected: 2 invalid rows", e.Error())
}
