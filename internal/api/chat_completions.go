package api

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/openvlm/lens/internal/inference"
	"github.com/openvlm/lens/internal/vision"
)

func (s *Server) handleChatCompletions(c *echo.Context) error {
	if s.gate == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "no engine configured", "", "")
	}

	req, err := decodeJSON[ChatCompletionRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if s.logBodies {
		if b, err := json.Marshal(req); err == nil {
			s.log.Debug("chat completion request", "body", string(b))
		}
		if len(req.Functions) > 0 {
			if b, err := json.Marshal(req.Functions); err == nil {
				s.log.Debug("function definitions", "functions", string(b))
			}
		}
	}

	if len(req.Messages) == 0 {
		return writeBadRequest(c, "messages is required and must not be empty")
	}

	loaded := s.gate.ModelID()
	if req.Model != "" && req.Model != loaded {
		msg := fmt.Sprintf("requested model %q not loaded; current model is %q", req.Model, loaded)
		return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "model", "model_not_loaded")
	}

	msgs, err := toInferenceMessages(req.Messages)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	params := inference.ResolveParams(inference.RequestOptions{
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
		Seed:        req.Seed,
	})

	completionID := "chatcmpl-" + uuid.NewString()
	created := s.clock().Unix()

	if req.Stream != nil && *req.Stream {
		return s.handleChatCompletionsStream(c, msgs, params, completionID, created, loaded)
	}
	return s.handleChatCompletionsSync(c, &req, msgs, params, completionID, created, loaded)
}

func (s *Server) handleChatCompletionsSync(c *echo.Context, req *ChatCompletionRequest, msgs []inference.Message, params inference.SamplingParams, completionID string, created int64, model string) error {
	var content string
	var usage ChatUsage

	err := s.gate.WithEngine(c.Request().Context(), func(eng inference.Engine) error {
		ctx := c.Request().Context()
		inputs, err := eng.Prepare(ctx, msgs)
		if err != nil {
			return err
		}
		out, err := eng.Generate(ctx, inputs, params, nil)
		if err != nil {
			return err
		}

		generated := out[inputs.PromptTokens():]
		text, err := eng.Tokenizer().Decode(generated, true)
		if err != nil {
			return fmt.Errorf("decode output: %w", err)
		}
		text = inference.TrimIncomplete(text)

		if req.ResponseFormat != nil && req.ResponseFormat.Type == "json_object" {
			text, err = inference.NormalizeJSONOutput(text)
			if err != nil {
				return err
			}
		}
		content = inference.Clean(text)
		usage = ChatUsage{
			PromptTokens:     inputs.PromptTokens(),
			CompletionTokens: len(generated),
			TotalTokens:      inputs.PromptTokens() + len(generated),
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, inference.ErrStructuredOutput), errors.Is(err, vision.ErrImageDecode), errors.Is(err, ErrInvalidRequest):
			return writeBadRequest(c, err.Error())
		default:
			return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
		}
	}

	if s.logBodies {
		s.log.Debug("chat completion response", "content", content)
	}

	finishReason := "stop"
	resp := ChatCompletionResponse{
		ID:      completionID,
		Object:  "chat.completion",
		Created: created,
		Model:   model,
		Choices: []ChatChoice{
			{
				Index: 0,
				Message: &AssistantMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: &finishReason,
			},
		},
		Usage: usage,
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleChatCompletionsStream(c *echo.Context, msgs []inference.Message, params inference.SamplingParams, completionID string, created int64, model string) error {
	return s.gate.WithEngine(c.Request().Context(), func(eng inference.Engine) error {
		ctx := c.Request().Context()
		inputs, err := eng.Prepare(ctx, msgs)
		if err != nil {
			// Nothing has been written yet; fail as a normal JSON error.
			return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
		}

		res := c.Response()
		flusher, ok := res.(interface{ Flush() })
		if !ok {
			return writeError(c, http.StatusInternalServerError, "server_error", "streaming unsupported", "", "")
		}
		res.Header().Set(echo.HeaderContentType, "text/event-stream")
		res.Header().Set("Cache-Control", "no-cache")
		res.Header().Set("Connection", "keep-alive")

		session := inference.StartStream(ctx, eng, inputs, params)
		session.Run(ctx, func(delta string) error {
			chunk := ChatCompletionChunk{
				ID:      completionID,
				Object:  "chat.completion.chunk",
				Created: created,
				Model:   model,
				Choices: []ChatChoice{
					{
						Index: 0,
						Delta: &ChatDelta{Content: delta},
					},
				},
			}
			if err := sendSSEChunk(res, chunk); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		})
		if err := session.Err(); err != nil {
			// The chunk protocol has no error frame: a failed generation
			// surfaces to the client as a short stream that still closes
			// cleanly below.
			s.log.Error("generation failed mid-stream", "id", completionID, "error", err)
		}

		finishReason := "stop"
		finalChunk := ChatCompletionChunk{
			ID:      completionID,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   model,
			Choices: []ChatChoice{
				{
					Index:        0,
					Delta:        &ChatDelta{},
					FinishReason: &finishReason,
				},
			},
		}
		_ = sendSSEChunk(res, finalChunk)
		_, _ = fmt.Fprint(res, "data: [DONE]\n\n")
		flusher.Flush()
		return nil
	})
}
