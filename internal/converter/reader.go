package converter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tabxml/internal/types"

	"github.com/xuri/excelize/v2"
)

const RowDetectionLimit = 10

// LoadTable reads a CSV or XLSX file into a table. Rows shorter than the
// header are padded with empty cells so every row shares the column set.
func LoadTable(filePath string) (*types.Table, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".csv":
		return loadCSV(filePath)
	case ".xlsx":
		return loadXLSX(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

func loadCSV(filePath string) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	return &types.Table{
		Headers: records[0],
		Rows:    padRows(records[1:], len(records[0])),
	}, nil
}

func loadXLSX(filePath string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	// Find the header row (first row with multiple non-empty cells)
	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		return nil, fmt.Errorf("could not find header row")
	}

	return &types.Table{
		Headers:   rows[headerRowIdx],
		Rows:      padRows(rows[headerRowIdx+1:], len(rows[headerRowIdx])),
		HeaderRow: headerRowIdx,
	}, nil
}

// padRows extends short rows with empty cells up to the header width.
// excelize trims trailing empty cells, and ragged CSV rows are allowed.
func padRows(rows [][]string, width int) [][]string {
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows
}

// findHeaderRow locates the first row that appears to be a header
// by finding the row with the most non-empty text cells
func findHeaderRow(rows [][]string) int {
	maxNonEmpty := 0
	headerIdx := -1

	// Look at first 20 rows max
	searchLimit := len(rows)
	if searchLimit > RowDetectionLimit*2 {
		searchLimit = RowDetectionLimit * 2
	}

	for i := 0; i < searchLimit; i++ {
		nonEmptyCount := 0
		hasText := false

		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed != "" {
				nonEmptyCount++
				// Check if cell contains actual text (not just numbers or symbols)
				if containsLetters(trimmed) {
					hasText = true
				}
			}
		}

		// Header should have multiple columns AND contain text
		if nonEmptyCount >= 2 && hasText && nonEmptyCount > maxNonEmpty {
			maxNonEmpty = nonEmptyCount
			headerIdx = i
		}
	}

	return headerIdx
}

// containsLetters checks if a string contains any alphabetic characters
func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
