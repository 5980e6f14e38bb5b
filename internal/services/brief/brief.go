// Package brief turns an employer's website into a pre-call intelligence
// brief using an LLM. Generation is strictly best-effort: every failure mode
// degrades to an empty (or raw-text) brief, never an error.
package brief

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultBaseURL is the default OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	fetchTimeout = 10 * time.Second
	llmTimeout   = 30 * time.Second
)

// Brief is the structured pre-call intelligence for a company. When the LLM
// answer cannot be parsed as JSON the Raw field carries the text instead.
type Brief struct {
	CompanyOverview string   `json:"company_overview"`
	Industry        string   `json:"industry"`
	EstimatedSize   string   `json:"estimated_size"`
	HiringNeeds     []string `json:"hiring_needs"`
	TalkingPoints   []string `json:"talking_points"`
	RedFlags        string   `json:"red_flags"`
	Raw             string   `json:"-"`
}

// Empty reports whether the brief carries no intelligence at all.
func (b Brief) Empty() bool {
	return b.CompanyOverview == "" && b.Industry == "" && b.EstimatedSize == "" &&
		len(b.HiringNeeds) == 0 && len(b.TalkingPoints) == 0 &&
		b.RedFlags == "" && b.Raw == ""
}

// Service generates briefs from employer websites.
type Service struct {
	client     openai.Client
	model      string
	httpClient *http.Client
	logger     *zap.Logger
	enabled    bool
}

// NewService creates a brief service. An empty apiKey disables generation;
// Generate then always returns an empty brief.
func NewService(apiKey, baseURL, model string, logger *zap.Logger) *Service {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{Timeout: llmTimeout}),
	)

	return &Service{
		client:     client,
		model:      model,
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger,
		enabled:    apiKey != "",
	}
}

// Generate fetches the website and asks the LLM for a structured brief. It
// never returns an error: any failure is logged and yields an empty brief.
func (s *Service) Generate(ctx context.Context, websiteURL string) Brief {
	if !s.enabled || websiteURL == "" {
		return Brief{}
	}

	text, err := fetchWebsiteText(ctx, s.httpClient, websiteURL)
	if err != nil {
		s.logger.Warn("brief_website_fetch_failed",
			zap.String("website_url", websiteURL),
			zap.Error(err),
		)
		return Brief{}
	}
	if text == "" {
		return Brief{}
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You are a recruiting research assistant. Respond with valid JSON only."),
		openai.UserMessage(buildBriefPrompt(websiteURL, text)),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(s.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := s.client.Chat.Completions.New(ctx, req)
	if err != nil {
		s.logger.Warn("brief_llm_request_failed",
			zap.String("website_url", websiteURL),
			zap.Error(err),
		)
		return Brief{}
	}
	if len(resp.Choices) == 0 {
		s.logger.Warn("brief_llm_empty_response", zap.String("website_url", websiteURL))
		return Brief{}
	}

	return parseBrief(resp.Choices[0].Message.Content)
}

func buildBriefPrompt(websiteURL, text string) string {
	return `Analyze the company behind the website ` + websiteURL + ` using the page text below and produce a pre-call brief for a recruiter.

Website text:
` + text + `

Respond with a JSON object in this format:
{
  "company_overview": "two or three sentences on what the company does",
  "industry": "primary industry",
  "estimated_size": "estimated employee count range",
  "hiring_needs": ["likely roles they hire for"],
  "talking_points": ["specific points a recruiter should raise on a call"],
  "red_flags": "anything a recruiter should be cautious about, or an empty string"
}

Return only valid JSON.`
}

// parseBrief decodes the LLM answer. Markdown code fences are stripped
// first; if the content still is not the expected JSON object, the raw text
// is kept so the research is not lost.
func parseBrief(content string) Brief {
	cleaned := stripCodeFences(content)

	var b Brief
	if err := json.Unmarshal([]byte(cleaned), &b); err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start != -1 && end > start {
			if err := json.Unmarshal([]byte(cleaned[start:end+1]), &b); err == nil {
				return b
			}
		}
		return Brief{Raw: strings.TrimSpace(content)}
	}

	return b
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}
