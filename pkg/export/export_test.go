package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset(rows int) Dataset {
	data := Dataset{Headers: []string{"Rank", "Name"}, Widths: []float64{1, 4}}
	for i := 1; i <= rows; i++ {
		data.Rows = append(data.Rows, map[string]string{"Rank": fmt.Sprint(i), "Name": fmt.Sprintf("Siswa %d", i)})
	}
	return data
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter(false).Render(sampleDataset(2))
	require.NoError(t, err)
	assert.Equal(t, "Rank,Name\n1,Siswa 1\n2,Siswa 2\n", string(payload))

	withBOM, err := NewCSVExporter(true).Render(sampleDataset(1))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(withBOM, utf8BOM))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter(false).Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRenderSpansPages(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleDataset(60), "Hafalan Leaderboard")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths(sampleDataset(0))
	assert.InDelta(t, pageWidth/5, widths[0], 0.001)
	assert.InDelta(t, pageWidth*4/5, widths[1], 0.001)

	even := columnWidths(Dataset{Headers: []string{"a", "b"}})
	assert.InDelta(t, pageWidth/2, even[0], 0.001)
}

func TestXLSXExporterRender(t *testing.T) {
	payload, err := NewXLSXExporter().Render(sampleDataset(3), "Hafalan Leaderboard")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(payload, []byte("PK")))

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows("Hafalan Leaderboard")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Rank", "Name"}, rows[0])
	assert.Equal(t, []string{"3", "Siswa 3"}, rows[3])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName("  "))
	assert.Equal(t, "Kelas 3A", sheetName("Kelas [3A]"))
	assert.Len(t, []rune(sheetName("An extremely long leaderboard title for the sheet")), maxSheetNameLen)
}
