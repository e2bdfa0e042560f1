package api

import (
	"fmt"
	"image"

	"github.com/openvlm/lens/internal/inference"
	"github.com/openvlm/lens/internal/vision"
)

// ChatCompletionRequest is the OpenAI-compatible chat completion request
// body. Sampling fields are pointers so unset can fall back to defaults.
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	TopP           *float64        `json:"top_p,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Stream         *bool           `json:"stream,omitempty"`
	Seed           *int64          `json:"seed,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Functions      []ChatFunction  `json:"functions,omitempty"`
	FunctionCall   any             `json:"function_call,omitempty"`
}

// ChatMessage content is either a plain string or a list of typed parts
// (text and image_url), so it stays `any` until validation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type ChatFunction struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatCompletionResponse is the non-streaming response envelope.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

// ChatCompletionChunk is one streaming SSE frame.
type ChatCompletionChunk struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

type ChatChoice struct {
	Index        int               `json:"index"`
	Message      *AssistantMessage `json:"message,omitempty"`
	Delta        *ChatDelta        `json:"delta,omitempty"`
	FinishReason *string           `json:"finish_reason"`
}

type AssistantMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatDelta struct {
	Content string `json:"content,omitempty"`
}

type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ModelCard mirrors the descriptor the upstream service returns for its
// single loaded model.
type ModelCard struct {
	ID            string            `json:"id"`
	Object        string            `json:"object"`
	Created       int64             `json:"created"`
	OwnedBy       string            `json:"owned_by"`
	Permission    []ModelPermission `json:"permission"`
	Capabilities  map[string]bool   `json:"capabilities,omitempty"`
	ContextWindow int               `json:"context_window,omitempty"`
	MaxTokens     int               `json:"max_tokens,omitempty"`
}

type ModelPermission struct {
	ID                 string `json:"id"`
	Created            int64  `json:"created"`
	AllowCreateEngine  bool   `json:"allow_create_engine"`
	AllowSampling      bool   `json:"allow_sampling"`
	AllowLogprobs      bool   `json:"allow_logprobs"`
	AllowSearchIndices bool   `json:"allow_search_indices"`
	AllowView          bool   `json:"allow_view"`
	AllowFineTuning    bool   `json:"allow_fine_tuning"`
	Organization       string `json:"organization"`
	IsBlocking         bool   `json:"is_blocking"`
}

type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelCard `json:"data"`
}

// toInferenceMessages validates roles and content parts and decodes any
// embedded images. Everything here fails before the engine is touched.
func toInferenceMessages(msgs []ChatMessage) ([]inference.Message, error) {
	out := make([]inference.Message, 0, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case "system", "user", "assistant":
		default:
			return nil, newInvalidRequest(fmt.Sprintf("messages[%d]: invalid role %q", i, m.Role))
		}

		msg := inference.Message{Role: m.Role}
		switch content := m.Content.(type) {
		case string:
			msg.Content = content
		case nil:
			msg.Content = ""
		case []any:
			text, images, err := parseContentParts(content)
			if err != nil {
				return nil, fmt.Errorf("messages[%d]: %w", i, err)
			}
			msg.Content = text
			msg.Images = images
		default:
			return nil, newInvalidRequest(fmt.Sprintf("messages[%d]: content must be a string or a list of content parts", i))
		}
		out = append(out, msg)
	}
	return out, nil
}

func parseContentParts(parts []any) (string, []image.Image, error) {
	var text string
	var images []image.Image
	for j, raw := range parts {
		pm, ok := raw.(map[string]any)
		if !ok {
			return "", nil, newInvalidRequest(fmt.Sprintf("content[%d]: invalid content part", j))
		}
		typ, _ := pm["type"].(string)
		switch typ {
		case "text":
			part, _ := pm["text"].(string)
			if text != "" && part != "" {
				text += "\n"
			}
			text += part
		case "image_url":
			ref, _ := pm["image_url"].(map[string]any)
			url, _ := ref["url"].(string)
			if url == "" {
				return "", nil, newInvalidRequest(fmt.Sprintf("content[%d]: image_url.url is required", j))
			}
			img, err := vision.DecodeDataURI(url)
			if err != nil {
				return "", nil, err
			}
			images = append(images, img)
		default:
			return "", nil, newInvalidRequest(fmt.Sprintf("content[%d]: invalid content type %q", j, typ))
		}
	}
	return text, images, nil
}
