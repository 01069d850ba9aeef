package gallery

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mvillareal/lumina/internal/ai"
	"github.com/mvillareal/lumina/internal/config"
	"github.com/mvillareal/lumina/internal/database/mock"
)

// stubCaptioner returns a fixed caption and counts invocations.
type stubCaptioner struct {
	caption *ai.Caption
	err     error
	calls   int
}

func (c *stubCaptioner) CaptionImage(ctx context.Context, imageData []byte) (*ai.Caption, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.caption, nil
}

// stubEmbedder returns canned vectors by exact text, or a default basis
// vector. badDim, when set, forces a wrong-length vector.
type stubEmbedder struct {
	dim     int
	vectors map[string][]float32
	err     error
	badDim  int
}

func (e *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.badDim > 0 {
		return make([]float32, e.badDim), nil
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	v := make([]float32, e.dim)
	v[0] = 1
	return v, nil
}

func (e *stubEmbedder) Dimension() int {
	return e.dim
}

func defaultCaption() *ai.Caption {
	return &ai.Caption{
		Literal:     "A red sports car parked on a wet street at night.",
		Descriptive: "A moody urban night scene with a cinematic feel.",
		Tags:        []string{"photograph", "car", "red", "night"},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Gallery: config.GalleryConfig{
			// Tight threshold keeps visually distinct test fixtures from
			// colliding while identical uploads still match at distance 0.
			DedupeThreshold: 2,
		},
		Search: config.SearchConfig{
			RRFK:              50,
			MatchCount:        20,
			MinScore:          0.025,
			FullTextWeight:    1.0,
			SemanticWeight:    1.0,
			CandidatesPerList: 40,
		},
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(repo *mock.PhotoRepository, captioner *stubCaptioner, embedder *stubEmbedder) *Service {
	return NewService(repo, captioner, embedder, testConfig(), quietLogger())
}

// gradientJPEG renders a horizontal luminance gradient.
func gradientJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for x := 0; x < 100; x++ {
		for y := 0; y < 100; y++ {
			gray := uint8(x * 255 / 100)
			img.Set(x, y, color.RGBA{gray, gray, gray, 255})
		}
	}
	return encodeJPEG(img)
}

// checkerboardJPEG renders a high-frequency block pattern whose hashes sit
// far from the gradient's.
func checkerboardJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for x := 0; x < 100; x++ {
		for y := 0; y < 100; y++ {
			c := color.RGBA{255, 255, 255, 255}
			if (x/10+y/10)%2 == 0 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return encodeJPEG(img)
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}
