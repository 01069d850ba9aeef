package gallery

import (
	"errors"
	"fmt"
)

// MaxBatchSize caps how many photos a single batch upload may carry.
const MaxBatchSize = 10

// MaxManualNoteLen caps the user-supplied note attached to an upload.
const MaxManualNoteLen = 200

// ErrBatchTooLarge indicates a batch upload exceeded MaxBatchSize items.
var ErrBatchTooLarge = fmt.Errorf("batch exceeds %d photos", MaxBatchSize)

// ErrManualNoteTooLong indicates the upload note exceeded MaxManualNoteLen.
var ErrManualNoteTooLong = fmt.Errorf("manual note exceeds %d characters", MaxManualNoteLen)

// ErrSearchUnavailable indicates a retrieval backend failed and no ranked
// results could be produced.
var ErrSearchUnavailable = errors.New("search is temporarily unavailable")

// DuplicateError reports that an upload perceptually matches an already
// stored photo. The upload is rejected, nothing is stored.
type DuplicateError struct {
	MatchID  string // ID of the existing photo
	Distance int    // Hamming distance of the closest hash pair
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate of photo %s (hash distance %d)", e.MatchID, e.Distance)
}
