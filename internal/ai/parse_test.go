package ai

import (
	"errors"
	"reflect"
	"testing"
)

const wellFormedReply = `[LITERAL]
A red sports car parked on a wet street at night, reflections of neon signs visible on the hood.

[DESCRIPTIVE]
A moody urban night scene with a cinematic feel, likely shot in a city entertainment district after rain.

[TAGS]
photograph, car, red, night, urban, neon, rain, street`

func TestParseCaption(t *testing.T) {
	caption, err := ParseCaption(wellFormedReply)
	if err != nil {
		t.Fatalf("ParseCaption failed: %v", err)
	}

	if caption.Literal == "" {
		t.Error("literal section should not be empty")
	}
	if caption.Descriptive == "" {
		t.Error("descriptive section should not be empty")
	}

	expectedTags := []string{"photograph", "car", "red", "night", "urban", "neon", "rain", "street"}
	if !reflect.DeepEqual(caption.Tags, expectedTags) {
		t.Errorf("tags = %v; want %v", caption.Tags, expectedTags)
	}
}

func TestParseCaptionWithPreamble(t *testing.T) {
	// Models sometimes add chatter before the first marker.
	reply := "Sure, here is the analysis:\n\n" + wellFormedReply

	caption, err := ParseCaption(reply)
	if err != nil {
		t.Fatalf("ParseCaption failed: %v", err)
	}
	if caption.Literal != "A red sports car parked on a wet street at night, reflections of neon signs visible on the hood." {
		t.Errorf("unexpected literal section: %q", caption.Literal)
	}
}

func TestParseCaptionMissingMarkers(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain prose", "A nice photo of a beach at sunset."},
		{"missing tags", "[LITERAL]\nA cat.\n\n[DESCRIPTIVE]\nA pet at home."},
		{"missing descriptive", "[LITERAL]\nA cat.\n\n[TAGS]\ncat"},
		{"empty string", ""},
		{"markers out of order", "[TAGS]\ncat\n\n[LITERAL]\nA cat.\n\n[DESCRIPTIVE]\nA pet."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCaption(tc.content)
			if !errors.Is(err, ErrInvalidModelResponse) {
				t.Errorf("expected ErrInvalidModelResponse, got %v", err)
			}
		})
	}
}

func TestParseCaptionEmptySections(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty literal", "[LITERAL]\n\n[DESCRIPTIVE]\nA pet at home.\n\n[TAGS]\ncat"},
		{"empty descriptive", "[LITERAL]\nA cat.\n\n[DESCRIPTIVE]\n\n[TAGS]\ncat"},
		{"whitespace only", "[LITERAL]\n   \n[DESCRIPTIVE]\n \t \n[TAGS]\ncat"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCaption(tc.content)
			if !errors.Is(err, ErrEmptyCaption) {
				t.Errorf("expected ErrEmptyCaption, got %v", err)
			}
		})
	}
}

func TestParseCaptionEmptyTagsAllowed(t *testing.T) {
	reply := "[LITERAL]\nA cat.\n\n[DESCRIPTIVE]\nA pet at home.\n\n[TAGS]\n"

	caption, err := ParseCaption(reply)
	if err != nil {
		t.Fatalf("ParseCaption failed: %v", err)
	}
	if len(caption.Tags) != 0 {
		t.Errorf("expected no tags, got %v", caption.Tags)
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"simple", "cat, dog", []string{"cat", "dog"}},
		{"uppercase", "Cat, DOG", []string{"cat", "dog"}},
		{"extra whitespace", "  cat ,  dog  ", []string{"cat", "dog"}},
		{"inner spaces to hyphens", "golden hour, mobile legends", []string{"golden-hour", "mobile-legends"}},
		{"duplicates removed", "cat, Cat, cat", []string{"cat"}},
		{"diacritics stripped", "café, jalapeño", []string{"cafe", "jalapeno"}},
		{"empty items skipped", "cat,, ,dog", []string{"cat", "dog"}},
		{"empty input", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeTags(tc.raw)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("NormalizeTags(%q) = %v; want %v", tc.raw, got, tc.expected)
			}
		})
	}
}

func TestDimensionError(t *testing.T) {
	err := &DimensionError{Want: 1536, Got: 768}
	expected := "embedding dimension mismatch: want 1536, got 768"
	if err.Error() != expected {
		t.Errorf("Error() = %q; want %q", err.Error(), expected)
	}
}
