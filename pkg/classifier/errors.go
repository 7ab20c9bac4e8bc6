package classifier

import "errors"

// ErrInvalidInput is returned for inputs the trainer cannot accept:
// an empty training set, a negative smoothing factor or an unknown label.
// Callers match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
