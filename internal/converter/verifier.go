package converter

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"tabxml/internal/types"
)

// VerifyRoundTrip re-parses a generated document and compares every cell
// against the source table, row-major in original row and column order.
// It stops at the first mismatch. Lookups use the sanitized column name,
// so cells whose text was double-escaped during serialization are expected
// to surface here as mismatches rather than being compensated for.
//
// A leaf that is empty or missing recovers as "", matching the string form
// used for missing cells.
func VerifyRoundTrip(table *types.Table, doc io.ReadSeeker, opts Options) (*types.VerificationReport, error) {
	opts = opts.withDefaults()

	if _, err := doc.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding document: %w", err)
	}
	records, err := parseItems(doc, opts.ItemTag)
	if err != nil {
		return nil, fmt.Errorf("parsing generated XML: %w", err)
	}
	if len(records) != len(table.Rows) {
		return nil, fmt.Errorf("generated XML has %d records, table has %d rows", len(records), len(table.Rows))
	}

	cols := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		cols[i] = CleanColumnName(h)
	}

	for i, row := range table.Rows {
		for j, col := range cols {
			var want string
			if j < len(row) {
				want = row[j]
			}
			got := records[i][col]
			if want != got {
				return &types.VerificationReport{
					OK:     false,
					Record: i + 1,
					Column: col,
					Want:   want,
					Got:    got,
					Message: fmt.Sprintf("Mismatch found in record %d for column '%s': '%s' != '%s'",
						i+1, col, want, got),
				}, nil
			}
		}
	}

	return &types.VerificationReport{
		OK:      true,
		Message: "All data has been accurately converted!",
	}, nil
}

// parseItems collects the item elements in document order, mapping each
// leaf tag to its decoded text content.
func parseItems(r io.Reader, itemTag string) ([]map[string]string, error) {
	dec := xml.NewDecoder(r)

	var records []map[string]string
	var cur map[string]string
	var leaf string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case cur == nil && t.Name.Local == itemTag:
				cur = make(map[string]string)
			case cur != nil:
				leaf = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if leaf != "" {
				text.Write(t)
			}
		case xml.EndElement:
			switch {
			case leaf != "" && t.Name.Local == leaf:
				cur[leaf] = text.String()
				leaf = ""
			case cur != nil && t.Name.Local == itemTag:
				records = append(records, cur)
				cur = nil
			}
		}
	}
	return records, nil
}
