package converter

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"tabxml/internal/types"
)

const (
	DefaultRootTag = "Root"
	DefaultItemTag = "Item"
	DefaultIndent  = "  "

	// Length of the raw-XML excerpt attached to formatting failures.
	excerptLimit = 500
)

// ErrColumnCollision is returned when two distinct column names sanitize to
// the same element name, which would silently drop data.
var ErrColumnCollision = errors.New("column name collision after sanitization")

// Options control the shape of the generated document.
type Options struct {
	RootTag string
	ItemTag string
	Indent  string
}

func (o Options) withDefaults() Options {
	if o.RootTag == "" {
		o.RootTag = DefaultRootTag
	}
	if o.ItemTag == "" {
		o.ItemTag = DefaultItemTag
	}
	if o.Indent == "" {
		o.Indent = DefaultIndent
	}
	return o
}

// FormatError is returned when the assembled document cannot be
// pretty-printed. Excerpt holds the start of the raw document so the
// offending markup can be shown to the user.
type FormatError struct {
	Excerpt string
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("formatting XML: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ConvertTable serializes a table into a pretty-printed, UTF-8 XML document:
// one root element, one item element per row in row order, one leaf per
// sanitized column in column order. Cells that cannot be represented in XML
// are recorded as warnings on the document and their leaves left empty.
// Progress is reported per row on progressChan when it is non-nil.
func ConvertTable(table *types.Table, opts Options, progressChan chan<- float64) (*types.Document, error) {
	opts = opts.withDefaults()

	cols := make([]string, len(table.Headers))
	seen := make(map[string]string, len(table.Headers))
	for i, h := range table.Headers {
		clean := CleanColumnName(h)
		if prev, ok := seen[clean]; ok {
			return nil, fmt.Errorf("columns '%s' and '%s' both sanitize to '%s': %w",
				prev, h, clean, ErrColumnCollision)
		}
		seen[clean] = h
		cols[i] = clean
	}

	var warnings []types.Diagnostic
	var raw strings.Builder
	raw.WriteString("<" + opts.RootTag + ">")

	totalRows := len(table.Rows)
	for i, row := range table.Rows {
		if progressChan != nil && totalRows > 0 {
			select {
			case progressChan <- float64(i) / float64(totalRows):
			default:
			}
		}

		raw.WriteString("<" + opts.ItemTag + ">")
		for j, col := range cols {
			var cell string
			if j < len(row) {
				cell = row[j]
			}
			raw.WriteString("<" + col + ">")
			text, err := escapeText(CleanValue(cell))
			if err != nil {
				warnings = append(warnings, types.Diagnostic{
					Record: i + 1,
					Column: col,
					Value:  cell,
					Err:    err,
				})
			} else {
				raw.WriteString(text)
			}
			raw.WriteString("</" + col + ">")
		}
		raw.WriteString("</" + opts.ItemTag + ">")
	}
	raw.WriteString("</" + opts.RootTag + ">")

	pretty, err := prettyXML(raw.String(), opts.Indent)
	if err != nil {
		excerpt := raw.String()
		if len(excerpt) > excerptLimit {
			excerpt = excerpt[:excerptLimit]
		}
		return nil, &FormatError{Excerpt: excerpt, Err: err}
	}

	return &types.Document{
		Bytes:    pretty,
		Filename: "output.xml",
		MIMEType: "application/xml",
		Columns:  cols,
		Warnings: warnings,
	}, nil
}

// prettyXML reindents a raw XML document and prepends the declaration.
// The decoder is also where structural problems surface, e.g. sanitized
// column names that still are not legal element names.
func prettyXML(raw, indent string) ([]byte, error) {
	var out bytes.Buffer
	out.WriteString(xml.Header)

	dec := xml.NewDecoder(strings.NewReader(raw))
	enc := xml.NewEncoder(&out)
	enc.Indent("", indent)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := enc.EncodeToken(tok); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
