package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024
)

// Client defines the text-generation operations the insights service needs.
type Client interface {
	SummarizeEmissions(ctx context.Context, req SummaryRequest) (SummaryResult, error)
	GenerateReductionTips(ctx context.Context, req TipsRequest) (TipsResult, error)
}

// SummaryRequest describes a period of emission data in prose, e.g.
// "Total emissions: 1178 kg CO2e. Breakdown: Travel: 400 kg, ...".
type SummaryRequest struct {
	PeriodDataDescription string `json:"periodDataDescription"`
}

// SummaryResult is the structured summary returned by the model.
type SummaryResult struct {
	Summary  string `json:"summary"`
	Insights string `json:"insights"`
}

// TipsRequest describes the user's habits per category in free text.
type TipsRequest struct {
	Travel      string `json:"travel"`
	Food        string `json:"food"`
	Shopping    string `json:"shopping"`
	EnergyUsage string `json:"energyUsage"`
}

// TipsResult carries the generated reduction tips.
type TipsResult struct {
	Tips []string `json:"tips"`
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const summarySystemPrompt = `You are an assistant that analyzes personal carbon emission data and helps users track their environmental impact.

Based on the emission data the user sends, generate a concise summary highlighting key trends, the categories with the highest emissions, and any significant changes. Also provide personalized insights such as potential areas for reduction and suggestions for sustainable habits.

Your output must be ONLY a JSON object with this structure:
{
  "summary": "Concise summary of the period's emissions",
  "insights": "Personalized insights and recommendations"
}`

const tipsSystemPrompt = `You are an assistant that suggests personalized carbon reduction tips based on a user's lifestyle habits.

The user will describe their travel, food, shopping and energy habits. Suggest concrete, actionable tips tailored to those habits.

Your output must be ONLY a JSON object with this structure:
{
  "tips": ["tip 1", "tip 2", "tip 3"]
}`

// SummarizeEmissions asks the model for a structured summary of a period's
// emission data.
func (c *anthropicClient) SummarizeEmissions(ctx context.Context, req SummaryRequest) (SummaryResult, error) {
	var result SummaryResult
	prompt := fmt.Sprintf("Emission data for the period:\n%s", req.PeriodDataDescription)
	if err := c.completeJSON(ctx, summarySystemPrompt, prompt, &result); err != nil {
		return SummaryResult{}, err
	}
	return result, nil
}

// GenerateReductionTips asks the model for habit-specific reduction tips.
func (c *anthropicClient) GenerateReductionTips(ctx context.Context, req TipsRequest) (TipsResult, error) {
	var result TipsResult
	prompt := fmt.Sprintf("Travel habits: %s\nFood habits: %s\nShopping habits: %s\nEnergy usage: %s",
		req.Travel, req.Food, req.Shopping, req.EnergyUsage)
	if err := c.completeJSON(ctx, tipsSystemPrompt, prompt, &result); err != nil {
		return TipsResult{}, err
	}
	return result, nil
}

// completeJSON sends one user turn and decodes the model's JSON reply into
// out. The assistant turn is prefilled with "{" to force a JSON response.
func (c *anthropicClient) completeJSON(ctx context.Context, system, input string, out interface{}) error {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages: []message{
			{Role: "user", Content: input},
			{Role: "assistant", Content: "{"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)

	if err != nil {
		return fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return fmt.Errorf("empty response from ai")
	}

	// Reconstruct the full JSON since we prefilled the opening brace.
	responseText := "{" + respBody.Content[0].Text

	// Clean up markdown code fences if the model wraps the JSON anyway.
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
	}
	responseText = strings.TrimSpace(responseText)

	if err := json.Unmarshal([]byte(responseText), out); err != nil {
		return fmt.Errorf("failed to unmarshal ai response: %w. Response was: %s", err, responseText)
	}
	return nil
}
