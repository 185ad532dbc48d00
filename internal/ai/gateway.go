package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xaenox/plant-pal/internal/apperr"
	"github.com/xaenox/plant-pal/internal/models"
)

// structuredTemperature biases identification and care-guide calls
// toward schema-stable output. Chat keeps the configured temperature.
const structuredTemperature = 0.2

// completionClient is the slice of the OpenAI client the gateway uses.
// *openai.Client satisfies it; tests substitute a fake.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Message is one turn handed to the provider for a chat call.
type Message struct {
	Role    string
	Content string
}

// Gateway is the single point of contact with the generative-model
// provider. It owns model selection and call configuration; it never
// touches storage.
type Gateway struct {
	client      completionClient
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

func NewGateway(apiKey, model string, maxTokens int, temperature float64, timeout time.Duration, logger *zap.Logger) *Gateway {
	return &Gateway{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

// IdentifyByName resolves a typed plant name to an identification result.
func (g *Gateway) IdentifyByName(ctx context.Context, name string) (*models.IdentificationResult, error) {
	raw, err := g.structuredCall(ctx, []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleUser,
		Content: IdentifyByNamePrompt(name),
	}})
	if err != nil {
		return nil, err
	}

	var result models.IdentificationResult
	if err := ExtractJSON(raw, &result); err != nil {
		g.logMalformed("identify by name", err)
		return nil, err
	}
	return &result, nil
}

// IdentifyByImage identifies a plant from raw image bytes. The image is
// attached as a second message part using a data URI.
func (g *Gateway) IdentifyByImage(ctx context.Context, image []byte, mimeType string) (*models.IdentificationResult, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	raw, err := g.structuredCall(ctx, []openai.ChatCompletionMessage{{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: IdentifyByImagePrompt(),
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: imageDataURI(image, mimeType),
				},
			},
		},
	}})
	if err != nil {
		return nil, err
	}

	var result models.IdentificationResult
	if err := ExtractJSON(raw, &result); err != nil {
		g.logMalformed("identify by image", err)
		return nil, err
	}
	return &result, nil
}

// GenerateCareGuide produces the full care guide for a plant.
func (g *Gateway) GenerateCareGuide(ctx context.Context, commonName, scientificName string) (*models.CareGuide, error) {
	if scientificName == "" {
		scientificName = commonName
	}

	raw, err := g.structuredCall(ctx, []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleUser,
		Content: CareGuidePrompt(commonName, scientificName),
	}})
	if err != nil {
		return nil, err
	}

	var guide models.CareGuide
	if err := ExtractJSON(raw, &guide); err != nil {
		g.logMalformed("care guide", err)
		return nil, err
	}
	return &guide, nil
}

// Converse sends an assembled conversation and returns the reply text
// as-is. No JSON forcing here.
func (g *Gateway) Converse(ctx context.Context, msgs []Message) (string, error) {
	chatMsgs := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		chatMsgs = append(chatMsgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	return g.call(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    chatMsgs,
		MaxTokens:   g.maxTokens,
		Temperature: float32(g.temperature),
	})
}

// ReminderText generates a short notification message. Length is
// constrained by the prompt only; callers keep a fixed fallback.
func (g *Gateway) ReminderText(ctx context.Context, plantName, kind string, daysSince int) (string, error) {
	text, err := g.call(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: ReminderNoticePrompt(plantName, kind, daysSince),
		}},
		MaxTokens:   g.maxTokens,
		Temperature: float32(g.temperature),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (g *Gateway) structuredCall(ctx context.Context, msgs []openai.ChatCompletionMessage) (string, error) {
	return g.call(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		MaxTokens:   g.maxTokens,
		Temperature: structuredTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
}

func (g *Gateway) call(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.Error("Provider call failed", zap.Error(err))
		return "", &apperr.ProviderError{Err: err}
	}
	if len(resp.Choices) == 0 {
		g.logger.Error("Provider returned no choices")
		return "", &apperr.ProviderError{Err: fmt.Errorf("empty completion")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *Gateway) logMalformed(op string, err error) {
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		g.logger.Error("Failed to parse provider response",
			zap.String("operation", op),
			zap.Error(err),
			zap.String("response", malformed.Excerpt))
		return
	}
	g.logger.Error("Failed to parse provider response",
		zap.String("operation", op),
		zap.Error(err))
}

func imageDataURI(image []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
}
