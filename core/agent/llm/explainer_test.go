package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/out"

	"github.com/goccy/go-json"
)

func TestParseExplanation(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantErr      bool
		wantText     string
		wantAdvisory map[string]domain.Verdict
	}{
		{
			name: "full response",
			raw: `{"overall_explanation": " Hydrating overall. ",
				"highly_contributing": [{"ingredient_name": "Water", "verdict": "Good"}],
				"moderate_ingredients": [{"ingredient_name": "Fragrance", "verdict": "BAD"}],
				"least_contributing": [{"ingredient_name": "Glycerin", "verdict": "excellent"}]}`,
			wantText: "Hydrating overall.",
			wantAdvisory: map[string]domain.Verdict{
				"water":     domain.VerdictGood,
				"fragrance": domain.VerdictBad,
			},
		},
		{
			name:         "fenced json",
			raw:          "```json\n{\"overall_explanation\": \"Fine.\"}\n```",
			wantText:     "Fine.",
			wantAdvisory: map[string]domain.Verdict{},
		},
		{
			name:    "missing explanation",
			raw:     `{"highly_contributing": []}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "The product is good.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExplanation(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseExplanation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if len(got.Advisory) != len(tt.wantAdvisory) {
				t.Fatalf("Advisory = %v, want %v", got.Advisory, tt.wantAdvisory)
			}
			for k, v := range tt.wantAdvisory {
				if got.Advisory[k] != v {
					t.Errorf("Advisory[%q] = %q, want %q", k, got.Advisory[k], v)
				}
			}
		})
	}
}

func TestBuildExplainPrompt(t *testing.T) {
	prompt := buildExplainPrompt(&out.ExplanationInput{
		SkinType:       "oily",
		OverallVerdict: domain.VerdictGood,
		Brackets: domain.Brackets{
			High: []domain.ClassifiedIngredient{{Name: "Water", Verdict: domain.VerdictGood}},
			Low:  []domain.ClassifiedIngredient{{Name: "Fragrance", Verdict: domain.VerdictBad, SideEffect: "Irritation"}},
		},
	})

	for _, want := range []string{
		"Product: N/A",
		"Skin type: oily",
		"Computed verdict: good",
		"- Water | verdict: good | side effects: N/A",
		"- (none)",
		"- Fragrance | verdict: bad | side effects: Irritation",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestExplainer_Explain(t *testing.T) {
	var gotReq struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)

		content, _ := json.Marshal(map[string]any{
			"overall_explanation": "Mostly beneficial.",
			"highly_contributing": []map[string]string{{"ingredient_name": "Water", "verdict": "good"}},
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   gotReq.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": string(content)},
			}},
		})
	}))
	defer srv.Close()

	e := NewExplainer(NewClient(ClientConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "test-model"}))
	got, err := e.Explain(context.Background(), &out.ExplanationInput{
		SkinType:       "dry",
		OverallVerdict: domain.VerdictGood,
	})
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if got.Text != "Mostly beneficial." {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Advisory["water"] != domain.VerdictGood {
		t.Errorf("Advisory = %v", got.Advisory)
	}
	if gotReq.Model != "test-model" || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestExplainer_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	}))
	defer srv.Close()

	e := NewExplainer(NewClient(ClientConfig{APIKey: "test", BaseURL: srv.URL + "/v1"}))
	if _, err := e.Explain(context.Background(), &out.ExplanationInput{SkinType: "dry"}); err == nil {
		t.Fatal("expected error")
	}
}
