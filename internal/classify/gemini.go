package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini classifies with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini returns a Gemini classifier.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

const instructions = "You categorize household bank and credit card transactions.\n" +
	"Descriptions may be in Hebrew or English.\n\n" +
	"Rules:\n" +
	"- Assign each transaction exactly one category from the catalog, by id.\n" +
	"- Income transactions only get categories with \"income\": true, all others only categories with \"income\": false.\n" +
	"- Skip transactions you cannot categorize.\n" +
	"- Output STRICT JSON only: an array of {\"id\": string, \"categoryId\": string}.\n" +
	"- Do NOT wrap the response in code fences.\n"

// Classify implements Classifier.
func (g *Gemini) Classify(ctx context.Context, transactions []Input, catalog []Category) ([]Assignment, error) {
	prompt, err := Prompt(transactions, catalog)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %w", ErrClassifier, err)
	}

	return ParseAssignments(resp.Text())
}

// Prompt renders the request for the model.
func Prompt(transactions []Input, catalog []Category) (string, error) {
	categories, err := json.Marshal(catalog)
	if err != nil {
		return "", err
	}

	inputs, err := json.Marshal(transactions)
	if err != nil {
		return "", err
	}

	return instructions + "\nCatalog:\n" + string(categories) + "\n\nTransactions:\n" + string(inputs) + "\n", nil
}

// ParseAssignments decodes the model output, tolerating Markdown fences and
// text around the array.
func ParseAssignments(raw string) ([]Assignment, error) {
	clean := cleanJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty response", ErrClassifier)
	}

	var assignments []Assignment
	if err := json.Unmarshal([]byte(clean), &assignments); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrClassifier, err)
	}

	return assignments, nil
}

func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return ""
		}
		s = s[idx+1:]
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = s[start : end+1]
		}
	}

	return strings.TrimSpace(s)
}
