package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Basic normalization
		{"lowercase", "ALGORITHMS", "algorithms"},
		{"spaces to dashes", "data structures", "data-structures"},
		{"already normalized", "data-structures", "data-structures"},

		// Whitespace handling
		{"trim whitespace", "  algorithms  ", "algorithms"},
		{"multiple spaces", "multi   word", "multi-word"},
		{"tabs and spaces", "multi\t word", "multi-word"},

		// Special characters
		{"emoji removal", "🐉 Dragons!", "dragons"},
		{"punctuation removal", "notes: chapter 1", "notes-chapter-1"},
		{"apostrophe removal", "don't panic", "dont-panic"},
		{"underscore removal", "snake_case", "snakecase"},

		// Diacritics
		{"accented characters", "Café Notes", "cafe-notes"},
		{"umlaut", "Über Alles", "uber-alles"},

		// Dash handling
		{"multiple dashes", "slow--burn", "slow-burn"},
		{"leading dashes", "--algorithms", "algorithms"},
		{"trailing dashes", "algorithms--", "algorithms"},
		{"mixed dashes", "--slow--burn--", "slow-burn"},

		// Edge cases
		{"empty string", "", ""},
		{"only spaces", "   ", ""},
		{"only special chars", "!@#$%", ""},
		{"numbers allowed", "top10", "top10"},
		{"mixed case with numbers", "Top 10 Books", "top-10-books"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Make(tt.input)
			if result != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Data Structures",
		"  multi   word ",
		"Café Notes",
		"--slow--burn--",
		"Top 10 Books",
		"algorithms",
	}

	for _, input := range inputs {
		once := Make(input)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
