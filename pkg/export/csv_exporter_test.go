package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeField(t *testing.T) {
	assert.Equal(t, "plain", EscapeField("plain"))
	assert.Equal(t, " leading space", EscapeField(" leading space"))
	assert.Equal(t, `"O'Brien, Jr."`, EscapeField("O'Brien, Jr."))
	assert.Equal(t, `"say ""hi"""`, EscapeField(`say "hi"`))
	assert.Equal(t, "\"line\nbreak\"", EscapeField("line\nbreak"))
	assert.Equal(t, "\"cr\rhere\"", EscapeField("cr\rhere"))
}

func TestCSVRenderRoundTrip(t *testing.T) {
	headers := []string{"created_at", "name", "mobile", "sender_bkash", "status", "notes"}
	rows := []map[string]string{
		{"created_at": "2024-03-01T10:00:00Z", "name": "O'Brien, Jr.", "mobile": "01711111111", "sender_bkash": "01722222222", "status": "pending", "notes": ""},
		{"created_at": "2024-03-02T10:00:00Z", "name": `Karim "KB" Bhai`, "mobile": "01811111111", "sender_bkash": "01822222222", "status": "confirmed", "notes": "paid\nvia agent"},
	}

	out, err := NewCSVExporter().Render(Dataset{Headers: headers, Rows: rows})
	require.NoError(t, err)
	assert.False(t, bytes.HasSuffix(out, []byte("\n")))

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)
	assert.Equal(t, headers, records[0])
	for i, row := range rows {
		for j, header := range headers {
			assert.Equal(t, row[header], records[i+1][j])
		}
	}
}

func TestCSVRenderEmptyDataset(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{Headers: []string{"name"}})
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{
		Headers: []string{"name", "status"},
		Rows:    []map[string]string{{"name": "Rahim", "status": "pending"}},
	}, "Orders")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "abc", truncateCell(" abc "))
	assert.Len(t, []rune(truncateCell(string(bytes.Repeat([]byte("x"), 80)))), pdfCellMaxRunes)
}
