package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mvillareal/lumina/internal/ai"
	"github.com/mvillareal/lumina/internal/config"
	"github.com/mvillareal/lumina/internal/database/mock"
	"github.com/mvillareal/lumina/internal/gallery"
)

// stubCaptioner returns a fixed caption.
type stubCaptioner struct {
	caption *ai.Caption
	err     error
}

func (c *stubCaptioner) CaptionImage(ctx context.Context, imageData []byte) (*ai.Caption, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.caption, nil
}

// stubEmbedder returns a fixed basis vector of the configured dimension.
type stubEmbedder struct {
	dim int
	err error
}

func (e *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	v := make([]float32, e.dim)
	v[0] = 1
	return v, nil
}

func (e *stubEmbedder) Dimension() int {
	return e.dim
}

// newTestService builds a gallery service over the in-memory repo with
// stubbed model calls.
func newTestService(t *testing.T, repo *mock.PhotoRepository) *gallery.Service {
	t.Helper()

	cfg := &config.Config{
		Gallery: config.GalleryConfig{DedupeThreshold: 2},
		Search: config.SearchConfig{
			RRFK:              50,
			MatchCount:        20,
			MinScore:          0.025,
			FullTextWeight:    1.0,
			SemanticWeight:    1.0,
			CandidatesPerList: 40,
		},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	captioner := &stubCaptioner{caption: &ai.Caption{
		Literal:     "A red sports car parked on a street.",
		Descriptive: "A moody urban night scene.",
		Tags:        []string{"car", "red", "night"},
	}}

	return gallery.NewService(repo, captioner, &stubEmbedder{dim: 1536}, cfg, log)
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// multipartImageRequest builds a multipart upload request. Field names map
// to image payloads; extra fields are plain form values.
func multipartImageRequest(t *testing.T, path, fileField string, images [][]byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for i, img := range images {
		part, err := writer.CreateFormFile(fileField, "upload.jpg")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(img); err != nil {
			t.Fatalf("failed to write image %d: %v", i, err)
		}
	}
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// testJPEG renders a gradient image that decodes and hashes cleanly.
func testJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for x := 0; x < 100; x++ {
		for y := 0; y < 100; y++ {
			gray := uint8(x * 255 / 100)
			img.Set(x, y, color.RGBA{gray, gray, gray, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

// checkerJPEG renders a block pattern that hashes far from testJPEG.
func checkerJPEG() []byte {
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
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}
