package llm

import (
	"context"
	"fmt"
	"strings"

	"skincheck_server/core/domain"
	"skincheck_server/core/port/out"

	"github.com/goccy/go-json"
)

const explainSystemPrompt = `You are a cosmetic formulation analyst writing for consumers.
You receive a product's ingredients grouped by estimated concentration and a verdict
that has already been computed. Do not change or question the verdict; explain it.
Reply with one JSON object:
{
  "overall_explanation": "one detailed paragraph on why the product received this verdict",
  "highly_contributing": [{"ingredient_name": "...", "verdict": "good|moderate|bad|unknown"}],
  "moderate_ingredients": [...],
  "least_contributing": [...]
}
Use the ingredient names exactly as given. No text outside the JSON.`

// Explainer implements out.ExplanationGenerator with a chat model.
type Explainer struct {
	client *Client
}

var _ out.ExplanationGenerator = (*Explainer)(nil)

func NewExplainer(client *Client) *Explainer {
	return &Explainer{client: client}
}

type explanationResponse struct {
	OverallExplanation  string        `json:"overall_explanation"`
	HighlyContributing  []adviceEntry `json:"highly_contributing"`
	ModerateIngredients []adviceEntry `json:"moderate_ingredients"`
	LeastContributing   []adviceEntry `json:"least_contributing"`
}

type adviceEntry struct {
	Name    string `json:"ingredient_name"`
	Verdict string `json:"verdict"`
}

// Explain implements out.ExplanationGenerator.
func (e *Explainer) Explain(ctx context.Context, in *out.ExplanationInput) (*out.Explanation, error) {
	raw, err := e.client.CompleteJSON(ctx, explainSystemPrompt, buildExplainPrompt(in))
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}
	return parseExplanation(raw)
}

func buildExplainPrompt(in *out.ExplanationInput) string {
	var b strings.Builder

	product := in.ProductName
	if product == "" {
		product = "N/A"
	}
	fmt.Fprintf(&b, "Product: %s\n", product)
	fmt.Fprintf(&b, "Skin type: %s\n", in.SkinType)
	fmt.Fprintf(&b, "Computed verdict: %s\n\n", in.OverallVerdict)

	section := func(title string, items []domain.ClassifiedIngredient) {
		fmt.Fprintf(&b, "%s:\n", title)
		if len(items) == 0 {
			b.WriteString("- (none)\n")
			return
		}
		for _, it := range items {
			side := it.SideEffect
			if side == "" {
				side = domain.UnresolvedPlaceholder
			}
			fmt.Fprintf(&b, "- %s | verdict: %s | side effects: %s\n", it.Name, it.Verdict, side)
		}
	}
	section("Highly contributing (first 10% of the list)", in.Brackets.High)
	section("Moderate (middle of the list)", in.Brackets.Moderate)
	section("Least contributing (last 30% of the list)", in.Brackets.Low)

	return b.String()
}

// parseExplanation accepts the model's JSON, tolerating a fenced code block.
func parseExplanation(raw string) (*out.Explanation, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var resp explanationResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	if strings.TrimSpace(resp.OverallExplanation) == "" {
		return nil, fmt.Errorf("parse explanation: overall_explanation is empty")
	}

	advisory := make(map[string]domain.Verdict)
	for _, group := range [][]adviceEntry{resp.HighlyContributing, resp.ModerateIngredients, resp.LeastContributing} {
		for _, a := range group {
			v, ok := parseVerdict(a.Verdict)
			name := strings.ToLower(strings.TrimSpace(a.Name))
			if !ok || name == "" {
				continue
			}
			advisory[name] = v
		}
	}

	return &out.Explanation{
		Text:     strings.TrimSpace(resp.OverallExplanation),
		Advisory: advisory,
	}, nil
}

func parseVerdict(s string) (domain.Verdict, bool) {
	switch v := domain.Verdict(strings.ToLower(strings.TrimSpace(s))); v {
	case domain.VerdictGood, domain.VerdictModerate, domain.VerdictBad, domain.VerdictUnknown:
		return v, true
	default:
		return "", false
	}
}
