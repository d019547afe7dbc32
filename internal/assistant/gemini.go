package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient implements LLMClient against Google's Gemini API.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assistant: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assistant: failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, modelID: modelID}, nil
}

func (c *GeminiClient) model(req Request) (*genai.GenerativeModel, []genai.Part, error) {
	model := c.client.GenerativeModel(c.modelID)
	if strings.TrimSpace(req.System) != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}

	parts := make([]genai.Part, 0, len(req.Attachments)+1)
	for _, att := range req.Attachments {
		data, err := base64.StdEncoding.DecodeString(att.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("assistant: invalid attachment encoding: %w", err)
		}
		parts = append(parts, genai.Blob{MIMEType: att.MIMEType, Data: data})
	}
	parts = append(parts, genai.Text(req.Message))
	return model, parts, nil
}

func history(req Request) []*genai.Content {
	var out []*genai.Content
	for _, turn := range req.History {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		role := "user"
		if turn.Role == TurnModel {
			role = "model"
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(text)},
		})
	}
	return out
}

// Complete sends a single prompt and returns the full reply.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (Response, error) {
	model, parts, err := c.model(req)
	if err != nil {
		return Response{}, err
	}

	cs := model.StartChat()
	cs.History = history(req)

	resp, err := cs.SendMessage(ctx, parts...)
	if err != nil {
		return Response{}, fmt.Errorf("assistant: gemini completion failed: %w", err)
	}
	text := collectText(resp)
	if text == "" {
		return Response{}, errors.New("assistant: gemini returned empty content")
	}
	return Response{Text: text}, nil
}

// Stream sends a prompt and forwards the cumulative reply chunk by chunk.
func (c *GeminiClient) Stream(ctx context.Context, req Request, onText func(string)) (Response, error) {
	model, parts, err := c.model(req)
	if err != nil {
		return Response{}, err
	}

	cs := model.StartChat()
	cs.History = history(req)

	iter := cs.SendMessageStream(ctx, parts...)
	var full strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return Response{}, fmt.Errorf("assistant: gemini stream failed: %w", err)
		}
		if chunk := collectText(resp); chunk != "" {
			full.WriteString(chunk)
			if onText != nil {
				onText(full.String())
			}
		}
	}
	text := strings.TrimSpace(full.String())
	if text == "" {
		return Response{}, errors.New("assistant: gemini returned empty content")
	}
	return Response{Text: text}, nil
}

// Close releases resources held by the underlying client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
