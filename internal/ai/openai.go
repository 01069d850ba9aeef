package ai

import (
	"context"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

//go:embed prompts/photo_caption.txt
var photoCaptionPrompt string

// OpenAIProvider implements Captioner and Embedder against the OpenAI API.
type OpenAIProvider struct {
	client         *openai.Client
	captionModel   string
	embeddingModel string
	dim            int
	usage          Usage
}

func NewOpenAIProvider(apiKey, captionModel, embeddingModel string, dim int) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client:         &client,
		captionModel:   captionModel,
		embeddingModel: embeddingModel,
		dim:            dim,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.captionModel
}

func (p *OpenAIProvider) Dimension() int {
	return p.dim
}

func (p *OpenAIProvider) GetUsage() *Usage {
	return &p.usage
}

func (p *OpenAIProvider) ResetUsage() {
	p.usage = Usage{}
}

func (p *OpenAIProvider) trackUsage(inputTokens, outputTokens int64) {
	p.usage.InputTokens += int(inputTokens)
	p.usage.OutputTokens += int(outputTokens)
}

// CaptionImage sends the image to the vision model and parses the reply
// into its sections. A malformed reply fails the call; the caller decides
// whether to retry the whole photo.
func (p *OpenAIProvider) CaptionImage(ctx context.Context, imageData []byte) (*Caption, error) {
	base64Image := base64.StdEncoding.EncodeToString(imageData)
	imageURL := "data:image/jpeg;base64," + base64Image

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.captionModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							openai.TextContentPart(photoCaptionPrompt),
							openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
								URL:    imageURL,
								Detail: "low",
							}),
						},
					},
				},
			},
		},
		MaxTokens: openai.Int(500),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		p.trackUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	return ParseCaption(resp.Choices[0].Message.Content)
}

// EmbedText computes an embedding for the given text and validates its
// dimension before returning it.
func (p *OpenAIProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model:      p.embeddingModel,
		Dimensions: openai.Int(int64(p.dim)),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding returned from OpenAI")
	}

	raw := resp.Data[0].Embedding
	if len(raw) != p.dim {
		return nil, &DimensionError{Want: p.dim, Got: len(raw)}
	}

	embedding := make([]float32, len(raw))
	for i, v := range raw {
		embedding[i] = float32(v)
	}

	return embedding, nil
}
