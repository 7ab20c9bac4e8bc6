package classifier

import (
	"fmt"
	"strings"
)

// Label identifies one of the two message classes.
type Label uint8

const (
	// Ham marks a legitimate message. It is the zero value and the
	// tie-break winner.
	Ham Label = iota
	// Spam marks an unsolicited message.
	Spam

	numLabels = 2
)

// Labels returns both labels in a fixed order.
func Labels() [numLabels]Label {
	return [numLabels]Label{Ham, Spam}
}

// String returns the canonical lowercase name of the label.
func (l Label) String() string {
	switch l {
	case Ham:
		return "ham"
	case Spam:
		return "spam"
	default:
		return fmt.Sprintf("label(%d)", uint8(l))
	}
}

// Valid reports whether l is one of the two known labels.
func (l Label) Valid() bool {
	return l == Ham || l == Spam
}

// ParseLabel converts a label string to a Label. Matching is
// case-insensitive; anything other than "ham" or "spam" is rejected.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ham":
		return Ham, nil
	case "spam":
		return Spam, nil
	default:
		return Ham, fmt.Errorf("%w: unknown label %q", ErrInvalidInput, s)
	}
}
