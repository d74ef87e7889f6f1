package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// Reasoner calls an OpenAI-compatible chat API for the two reasoning paths:
// the query-parser fallback (domain.QueryResolver) and the analytical agent
// (domain.Agent). Both use strict JSON output at temperature zero.
type Reasoner struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// ReasonerConfig holds the reasoning provider settings.
type ReasonerConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewReasoner creates an OpenAI-compatible reasoning client.
func NewReasoner(cfg *ReasonerConfig) *Reasoner {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Reasoner{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

const resolveSystemPrompt = "You are a query parser. Extract structured information from " +
	"contact search queries. Return JSON only with keys: personas (roles/titles), " +
	"companies, industries, geos (locations). Each value is an array of strings."

// ResolveQuery implements domain.QueryResolver: it extracts structured
// targets from a query the dictionaries could not read.
func (r *Reasoner) ResolveQuery(ctx context.Context, query string) (domain.Targets, error) {
	content, err := r.complete(ctx, resolveSystemPrompt,
		fmt.Sprintf("Parse this search query into JSON:\n\n%s", query))
	if err != nil {
		return domain.Targets{}, err
	}

	var parsed struct {
		Personas   []string `json:"personas"`
		Companies  []string `json:"companies"`
		Industries []string `json:"industries"`
		Geos       []string `json:"geos"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.Targets{}, fmt.Errorf("malformed parser response: %w", err)
	}

	return domain.Targets{
		Personas:   parsed.Personas,
		Companies:  parsed.Companies,
		Industries: parsed.Industries,
		Geos:       parsed.Geos,
	}, nil
}

const agentSystemPrompt = "You are a contact analyst. Answer the user's question about " +
	"their professional network using only the provided contacts. Return JSON with " +
	"keys: answer (string) and contacts (array of indexes into the provided list " +
	"that support the answer)."

// Resolve implements domain.Agent: it answers analytical questions over the
// recalled candidate set.
func (r *Reasoner) Resolve(ctx context.Context, query string, candidates []domain.Contact) (domain.AgentResult, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\nContacts:\n", query)
	for i, c := range candidates {
		fmt.Fprintf(&sb, "%d. %s, %s at %s\n", i, c.FullName, c.Position, c.Company)
	}

	content, err := r.complete(ctx, agentSystemPrompt, sb.String())
	if err != nil {
		return domain.AgentResult{}, err
	}

	var parsed struct {
		Answer   string `json:"answer"`
		Contacts []int  `json:"contacts"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.AgentResult{}, fmt.Errorf("malformed agent response: %w", err)
	}

	result := domain.AgentResult{Answer: parsed.Answer}
	for _, idx := range parsed.Contacts {
		if idx >= 0 && idx < len(candidates) {
			result.Contacts = append(result.Contacts, candidates[idx])
		}
	}
	return result, nil
}

func (r *Reasoner) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
