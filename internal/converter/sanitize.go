package converter

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var nonAlnum = regexp.MustCompile(`\W+`)

// CleanColumnName converts a raw column name into a safe element name by
// collapsing every run of non-alphanumeric characters into a single
// underscore. Distinct raw names can sanitize to the same result; the
// serializer treats that as a configuration error.
func CleanColumnName(name string) string {
	return nonAlnum.ReplaceAllString(name, "_")
}

// CleanValue applies the baseline entity substitution to a cell value so it
// is safe to embed in XML. A second, broader escaping pass runs when the
// leaf text is written, so ampersands introduced here end up double-escaped
// in the generated document.
func CleanValue(value string) string {
	value = strings.ReplaceAll(value, "&", "&amp;")
	value = strings.ReplaceAll(value, "<", "&lt;")
	value = strings.ReplaceAll(value, ">", "&gt;")
	return value
}

// escapeText escapes & < > " ' for use as element text. It rejects values
// that cannot appear in a well-formed XML document at all: invalid UTF-8
// and control characters outside the XML character range.
func escapeText(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("value is not valid UTF-8")
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return "", fmt.Errorf("value contains character %U, which XML cannot represent", r)
		}
	}
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
