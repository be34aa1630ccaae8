package converter

import (
	"testing"

	"tabxml/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertAndVerify(t *testing.T, tbl *types.Table) *types.VerificationReport {
	t.Helper()

	doc, err := ConvertTable(tbl, Options{}, nil)
	require.NoError(t, err)

	report, err := VerifyRoundTrip(tbl, doc.Reader(), Options{})
	require.NoError(t, err)
	return report
}

func TestVerifyRoundTripClean(t *testing.T) {
	report := convertAndVerify(t, &types.Table{
		Headers: []string{"Name", "Hours Worked"},
		Rows: [][]string{
			{"Alice", "8.5"},
			{"Bob", "7.0"},
		},
	})

	assert.True(t, report.OK)
	assert.Equal(t, "All data has been accurately converted!", report.Message)
}

func TestVerifyRoundTripApostrophe(t *testing.T) {
	// Only the broad escaping pass touches apostrophes, and the parser
	// reverses it exactly.
	report := convertAndVerify(t, &types.Table{
		Headers: []string{"Name"},
		Rows:    [][]string{{"O'Brien"}},
	})

	assert.True(t, report.OK)
}

func TestVerifyRoundTripAmpersandMismatch(t *testing.T) {
	// The two escaping passes stack but the parser decodes only once, so an
	// ampersand never survives the round trip. The verifier surfaces that
	// rather than compensating.
	report := convertAndVerify(t, &types.Table{
		Headers: []string{"Note"},
		Rows:    [][]string{{"A & B"}},
	})

	require.False(t, report.OK)
	assert.Equal(t, 1, report.Record)
	assert.Equal(t, "Note", report.Column)
	assert.Equal(t, "A & B", report.Want)
	assert.Equal(t, "A &amp; B", report.Got)
	assert.Equal(t, "Mismatch found in record 1 for column 'Note': 'A & B' != 'A &amp; B'", report.Message)
}

func TestVerifyRoundTripFirstMismatchWins(t *testing.T) {
	report := convertAndVerify(t, &types.Table{
		Headers: []string{"A", "B"},
		Rows: [][]string{
			{"ok", "x < y"},
			{"1 & 2", "ok"},
		},
	})

	// Row-major order: record 1 column B comes before record 2 column A.
	require.False(t, report.OK)
	assert.Equal(t, 1, report.Record)
	assert.Equal(t, "B", report.Column)
}

func TestVerifyRoundTripEmptyTable(t *testing.T) {
	report := convertAndVerify(t, &types.Table{
		Headers: []string{"Name", "Hours"},
	})

	assert.True(t, report.OK)
}

func TestVerifyRoundTripMissingCell(t *testing.T) {
	// A missing cell has the string form "" and recovers as "" from an
	// empty leaf, so no spurious mismatch is reported.
	report := convertAndVerify(t, &types.Table{
		Headers: []string{"Name", "Hours"},
		Rows:    [][]string{{"Alice"}},
	})

	assert.True(t, report.OK)
}

func TestVerifyRoundTripColumnNamedLikeItem(t *testing.T) {
	// A column that sanitizes to the item tag still round-trips.
	report := convertAndVerify(t, &types.Table{
		Headers: []string{"Item", "Count"},
		Rows:    [][]string{{"widget", "3"}},
	})

	assert.True(t, report.OK)
}

func TestVerifyRoundTripRewindsBuffer(t *testing.T) {
	tbl := &types.Table{
		Headers: []string{"Name"},
		Rows:    [][]string{{"Alice"}},
	}

	doc, err := ConvertTable(tbl, Options{}, nil)
	require.NoError(t, err)

	r := doc.Reader()
	for i := 0; i < 2; i++ {
		report, err := VerifyRoundTrip(tbl, r, Options{})
		require.NoError(t, err)
		assert.True(t, report.OK)
	}
}

func TestVerifyRoundTripRecordCountMismatch(t *testing.T) {
	doc, err := ConvertTable(&types.Table{
		Headers: []string{"Name"},
		Rows:    [][]string{{"Alice"}},
	}, Options{}, nil)
	require.NoError(t, err)

	_, err = VerifyRoundTrip(&types.Table{
		Headers: []string{"Name"},
		Rows:    [][]string{{"Alice"}, {"Bob"}},
	}, doc.Reader(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 records")
}
