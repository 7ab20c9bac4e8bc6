package classifier

import (
	"regexp"
	"strings"
)

// Any run of characters outside Unicode letters, digits and underscore
// acts as a token separator.
var separatorRegex = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Tokenize normalizes text into classification tokens: separators become
// whitespace, the text is lowercased with Unicode simple case mapping and
// split on whitespace. Duplicates are kept, order is preserved and no
// stemming or stop-word filtering is applied. An input with no token
// characters yields an empty slice.
func Tokenize(text string) []string {
	cleaned := separatorRegex.ReplaceAllString(text, " ")
	return strings.Fields(strings.ToLower(cleaned))
}
