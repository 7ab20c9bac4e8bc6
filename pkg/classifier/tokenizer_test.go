package classifier

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "Simple text",
			text:     "hello world",
			expected: []string{"hello", "world"},
		},
		{
			name:     "Punctuation and apostrophes split",
			text:     "Hello, World! It's 2024...",
			expected: []string{"hello", "world", "it", "s", "2024"},
		},
		{
			name:     "Underscore kept inside token",
			text:     "free_prize now",
			expected: []string{"free_prize", "now"},
		},
		{
			name:     "Duplicates preserved",
			text:     "win win WIN",
			expected: []string{"win", "win", "win"},
		},
		{
			name:     "Digits kept",
			text:     "call 08001234567 now",
			expected: []string{"call", "08001234567", "now"},
		},
		{
			name:     "Unicode letters survive",
			text:     "Träume groß!",
			expected: []string{"träume", "groß"},
		},
		{
			name:     "Empty text",
			text:     "",
			expected: nil,
		},
		{
			name:     "Only separators",
			text:     "?!... --- !!!",
			expected: nil,
		},
		{
			name:     "Mixed whitespace",
			text:     "a\tb\nc\r\nd",
			expected: []string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.text)
			if len(tokens) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(tokens, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, tokens, tt.expected)
			}
		})
	}
}

func TestTokenizeDoublesMultiplicity(t *testing.T) {
	text := "free prize free"
	once := Tokenize(text)
	twice := Tokenize(text + " " + text)

	if len(twice) != 2*len(once) {
		t.Errorf("Concatenated text should double token count: got %d, want %d", len(twice), 2*len(once))
	}
}

func TestTokenizeIsPure(t *testing.T) {
	text := "Same INPUT, same output!"
	first := Tokenize(text)
	for i := 0; i < 100; i++ {
		if !reflect.DeepEqual(Tokenize(text), first) {
			t.Fatal("Tokenize should be deterministic")
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := strings.Repeat("URGENT! You have won a 1 week FREE membership in our £100,000 prize Jackpot! ", 4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Tokenize(text)
	}
}
