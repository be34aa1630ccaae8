package types

import (
	"bytes"
	"fmt"
	"time"
)

// Table is an ordered tabular dataset: named columns plus rows of cells in
// their display string form. Missing cells have the string form "".
type Table struct {
	Headers   []string
	Rows      [][]string
	HeaderRow int // index of the detected header row in the source file
}

// Diagnostic is a non-fatal warning raised while converting a single cell.
// The cell's leaf element is left empty and processing continues.
type Diagnostic struct {
	Record int // 1-based row number
	Column string
	Value  string
	Err    error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("could not convert column '%s' in record %d: %v (original value: '%s')",
		d.Column, d.Record, d.Err, d.Value)
}

// Document is a produced XML document together with the metadata a download
// surface needs.
type Document struct {
	Bytes    []byte
	Filename string
	MIMEType string
	Columns  []string // sanitized column names, in original column order
	Warnings []Diagnostic
}

// Reader returns a fresh rewindable view of the document bytes.
func (d *Document) Reader() *bytes.Reader {
	return bytes.NewReader(d.Bytes)
}

// VerificationReport is the outcome of comparing the source table against
// the content recovered by re-parsing the generated XML.
type VerificationReport struct {
	OK      bool
	Message string

	// Set on mismatch only.
	Record int // 1-based
	Column string
	Want   string
	Got    string
}

type ConversionResult struct {
	InputFile  string
	OutputFile string
	Columns    []string
	Rows       int
	Warnings   []Diagnostic
	Report     *VerificationReport
	Elapsed    time.Duration
}
