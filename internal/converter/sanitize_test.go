package converter

import "testing"

func TestCleanColumnName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain name", "Name", "Name"},
		{"Space", "First Name", "First_Name"},
		{"Multiple spaces collapse", "First   Name", "First_Name"},
		{"Punctuation run collapses", "Hours (HH:MM)", "Hours_HH_MM_"},
		{"Mixed separators", "unit-price/eur", "unit_price_eur"},
		{"Underscores kept", "already_safe", "already_safe"},
		{"Digits kept", "col2", "col2"},
		{"Leading junk", "  Name", "_Name"},
		{"Only junk", "?!*", "_"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanColumnName(tt.input)
			if got != tt.expected {
				t.Errorf("CleanColumnName(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"No specials", "plain text", "plain text"},
		{"Ampersand", "A & B", "A &amp; B"},
		{"Angle brackets", "<tag>", "&lt;tag&gt;"},
		{"Already escaped gets escaped again", "&amp;", "&amp;amp;"},
		{"Quotes untouched here", `O'Brien said "hi"`, `O'Brien said "hi"`},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanValue(tt.input)
			if got != tt.expected {
				t.Errorf("CleanValue(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"Plain", "Alice", "Alice", false},
		{"Apostrophe", "O'Brien", "O&#39;Brien", false},
		{"Ampersand", "A & B", "A &amp; B", false},
		{"Quote", `say "hi"`, "say &#34;hi&#34;", false},
		{"Invalid UTF-8", "\xff\xfe", "", true},
		{"Control character", "a\x00b", "", true},
		{"Tab is legal", "a\tb", "a&#x9;b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := escapeText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("escapeText(%q) error = %v; wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("escapeText(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}
