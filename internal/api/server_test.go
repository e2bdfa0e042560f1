package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/openvlm/lens/internal/inference"
)

// runeTokenizer treats ids as rune codepoints.
type runeTokenizer struct{}

func (runeTokenizer) Decode(ids []int, skipSpecial bool) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteRune(rune(id))
	}
	return sb.String(), nil
}

func (runeTokenizer) ReplacementID() int { return -1 }

// testEngine replays a fixed reply one rune-token per step.
type testEngine struct {
	model   string
	reply   string
	prepErr error
	genErr  error // returned after the full reply has been observed
}

func (e *testEngine) Prepare(ctx context.Context, msgs []inference.Message) (*inference.PromptInputs, error) {
	if e.prepErr != nil {
		return nil, e.prepErr
	}
	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.Content)
	}
	inputs := &inference.PromptInputs{Text: sb.String()}
	for _, r := range inputs.Text {
		inputs.IDs = append(inputs.IDs, int(r))
	}
	for _, m := range msgs {
		inputs.Images = append(inputs.Images, m.Images...)
	}
	return inputs, nil
}

func (e *testEngine) Generate(ctx context.Context, inputs *inference.PromptInputs, params inference.SamplingParams, observers []inference.StepObserver) ([]int, error) {
	ids := append([]int(nil), inputs.IDs...)
	for _, r := range e.reply {
		ids = append(ids, int(r))
		for _, o := range observers {
			o.Observe(ids, nil)
		}
	}
	if e.genErr != nil {
		return nil, e.genErr
	}
	return ids, nil
}

func (e *testEngine) Tokenizer() inference.Tokenizer { return runeTokenizer{} }

func (e *testEngine) ModelID() string {
	if e.model == "" {
		return "lens-test"
	}
	return e.model
}

func (e *testEngine) Device() string { return "cpu" }
func (e *testEngine) Close() error   { return nil }

func newTestEcho(eng inference.Engine, cfg ServerConfig) *echo.Echo {
	server := NewServer(NewEngineGate(eng), cfg)
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(&testEngine{reply: "ok"}, ServerConfig{})
	rec := doJSON(t, e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, want := range []string{`"status":"healthy"`, `"model_loaded":true`, `"model_name":"lens-test"`, `"device":"cpu"`, `"num_cpu"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("health body missing %s: %s", want, body)
		}
	}
}

func TestAuthEnforcement(t *testing.T) {
	t.Parallel()

	e := newTestEcho(&testEngine{reply: "ok"}, ServerConfig{APIKey: "secret"})
	body := `{"messages":[{"role":"user","content":"hi"}]}`

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"correct token", "Bearer secret", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			headers := map[string]string{}
			if tc.header != "" {
				headers["Authorization"] = tc.header
			}
			rec := doJSON(t, e, http.MethodPost, "/v1/chat/completions", body, headers)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}

	// Both /v1 routes are guarded; /health is not.
	rec := doJSON(t, e, http.MethodGet, "/v1/models", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on /v1/models without key, got %d", rec.Code)
	}
	rec = doJSON(t, e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to be open, got %d", rec.Code)
	}
}

func TestListModels(t *testing.T) {
	t.Parallel()

	e := newTestEcho(&testEngine{reply: "ok"}, ServerConfig{})
	rec := doJSON(t, e, http.MethodGet, "/v1/models", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, want := range []string{`"object":"list"`, `"id":"lens-test"`, `"vision":true`, `"context_window":131072`} {
		if !strings.Contains(body, want) {
			t.Fatalf("models body missing %s: %s", want, body)
		}
	}
}
