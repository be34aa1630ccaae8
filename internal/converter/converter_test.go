package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFile(t *testing.T) {
	path := writeTempCSV(t, "Name,Hours Worked\nAlice,8.5\nBob,7.0\n")

	result, err := ConvertFile(path, "", Options{}, nil)
	require.NoError(t, err)

	wantOutput := strings.TrimSuffix(path, ".csv") + ".xml"
	assert.Equal(t, path, result.InputFile)
	assert.Equal(t, wantOutput, result.OutputFile)
	assert.Equal(t, []string{"Name", "Hours_Worked"}, result.Columns)
	assert.Equal(t, 2, result.Rows)
	assert.Empty(t, result.Warnings)
	assert.Greater(t, result.Elapsed.Seconds(), 0.0)

	require.NotNil(t, result.Report)
	assert.True(t, result.Report.OK)

	data, err := os.ReadFile(wantOutput)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Name>Alice</Name>")
}

func TestConvertFileExplicitOutput(t *testing.T) {
	path := writeTempCSV(t, "Name\nAlice\n")
	out := filepath.Join(t.TempDir(), "report.xml")

	result, err := ConvertFile(path, out, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, out, result.OutputFile)

	_, err = os.Stat(out)
	require.NoError(t, err)
}

func TestConvertFileMismatchIsNotAnError(t *testing.T) {
	path := writeTempCSV(t, "Note\nA & B\n")

	result, err := ConvertFile(path, "", Options{}, nil)
	require.NoError(t, err)

	// The conversion itself completes; the discrepancy rides on the report.
	require.NotNil(t, result.Report)
	assert.False(t, result.Report.OK)
	assert.Contains(t, result.Report.Message, "Mismatch found in record 1")
}

func TestConvertFileFatalError(t *testing.T) {
	path := writeTempCSV(t, "123\nx\n")

	_, err := ConvertFile(path, "", Options{}, nil)
	require.Error(t, err)

	var fe *FormatError
	require.ErrorAs(t, err, &fe)

	// No partial output on a fatal formatting error.
	_, statErr := os.Stat(strings.TrimSuffix(path, ".csv") + ".xml")
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertFileMissingInput(t *testing.T) {
	_, err := ConvertFile(filepath.Join(t.TempDir(), "nope.csv"), "", Options{}, nil)
	require.Error(t, err)
}
