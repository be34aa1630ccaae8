package converter

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"tabxml/internal/types"
)

// ConvertFile runs one full conversion cycle: load the table, serialize it,
// write the XML next to the input (or to outputFile when given), and verify
// the round trip. Warnings and the verification report ride on the result;
// only fatal conditions come back as an error.
func ConvertFile(inputFile, outputFile string, opts Options, progressChan chan<- float64) (*types.ConversionResult, error) {
	start := time.Now()

	table, err := LoadTable(inputFile)
	if err != nil {
		return nil, err
	}

	doc, err := ConvertTable(table, opts, progressChan)
	if err != nil {
		return nil, err
	}

	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = strings.TrimSuffix(inputFile, ext) + ".xml"
	}
	if err := os.WriteFile(outputFile, doc.Bytes, 0o644); err != nil {
		return nil, err
	}

	report, err := VerifyRoundTrip(table, doc.Reader(), opts)
	if err != nil {
		return nil, err
	}

	return &types.ConversionResult{
		InputFile:  inputFile,
		OutputFile: outputFile,
		Columns:    doc.Columns,
		Rows:       len(table.Rows),
		Warnings:   doc.Warnings,
		Report:     report,
		Elapsed:    time.Since(start),
	}, nil
}
