package ai

import (
	"context"
	"errors"
	"fmt"
)

// Caption is the structured output of the vision model for one photo.
type Caption struct {
	Literal     string   // what is visibly in the frame
	Descriptive string   // context, mood, story
	Tags        []string // normalized lowercase keywords
}

// Captioner produces a structured caption for an image.
type Captioner interface {
	CaptionImage(ctx context.Context, imageData []byte) (*Caption, error)
}

// Embedder turns text into a fixed-dimension embedding vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	// Dimension returns the expected vector length.
	Dimension() int
}

// ErrInvalidModelResponse indicates the model reply did not contain the
// expected section markers.
var ErrInvalidModelResponse = errors.New("model response missing expected sections")

// ErrEmptyCaption indicates the model reply had the right shape but no
// usable content in the literal or descriptive sections.
var ErrEmptyCaption = errors.New("model returned an empty caption")

// DimensionError reports an embedding whose length does not match the
// configured vector dimension. Storing such a vector would corrupt
// similarity ordering, so it is rejected before persistence.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// Usage tracks token usage across API calls.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
