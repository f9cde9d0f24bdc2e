// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package advisor asks a language model for a screening suggestion. A
// suggestion is advisory: nothing in this package records a decision.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/review-engine/pkg/types"
)

const (
	defaultModel      = "claude-sonnet-4-5-20250929"
	defaultMaxTokens  = 512
	defaultMaxRetries = 3
	batchConcurrency  = 4
)

// ErrNoAPIKey is returned when no Anthropic API key is configured.
var ErrNoAPIKey = errors.New("no anthropic api key configured")

// Suggestion is the model's recommended decision for one reference.
type Suggestion struct {
	ReferenceID string         `json:"reference_id" yaml:"reference_id"`
	Decision    types.Decision `json:"decision" yaml:"decision"`
	Reasoning   string         `json:"reasoning" yaml:"reasoning"`
}

// Advisor suggests a screening decision for a reference.
type Advisor interface {
	Suggest(ctx context.Context, p *types.Project, r *types.Reference, stage types.Stage) (Suggestion, error)
}

// MessageRequest is a single-turn prompt to the model.
type MessageRequest struct {
	Model     string
	MaxTokens int64
	Prompt    string
}

// MessageClient sends one prompt and returns the model's text reply.
type MessageClient interface {
	CreateMessage(ctx context.Context, req MessageRequest) (string, error)
}

var promptTmpl = template.Must(template.New("screening").Parse(`You are an expert research assistant conducting a systematic literature review.

Research question: {{.Project.ResearchQuestion}}
Inclusion criteria: {{.Project.InclusionCriteria}}
Exclusion criteria: {{.Project.ExclusionCriteria}}

Article to screen ({{.StageLabel}} stage):
Title: {{.Ref.Title}}
Authors: {{.Ref.Authors}}
Year: {{.Ref.Year}}
Abstract: {{.Ref.Abstract}}

Decide whether this article should be included, excluded, or is uncertain at this stage. Be strict about the criteria.

Respond with a JSON object only, with no text outside it:
{"suggestion": "include" | "exclude" | "uncertain", "reasoning": "at most two sentences"}
`))

func renderPrompt(p *types.Project, r *types.Reference, stage types.Stage) (string, error) {
	label := "title/abstract"
	if stage == types.StageFullText {
		label = "full-text"
	}
	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, struct {
		Project    *types.Project
		Ref        *types.Reference
		StageLabel string
	}{p, r, label})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ClaudeAdvisor asks Claude for screening suggestions.
type ClaudeAdvisor struct {
	client     MessageClient
	model      string
	maxTokens  int64
	maxRetries int
	logger     *zap.Logger
}

// NewClaudeAdvisor builds an advisor from cfg, filling an empty model and
// non-positive token limit with defaults. MaxRetries of zero disables
// retries; a negative value selects the default. A nil logger discards log
// output.
func NewClaudeAdvisor(cfg types.AdvisorConfig, client MessageClient, logger *zap.Logger) *ClaudeAdvisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &ClaudeAdvisor{
		client:     client,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
	if a.model == "" {
		a.model = defaultModel
	}
	if a.maxTokens <= 0 {
		a.maxTokens = defaultMaxTokens
	}
	if a.maxRetries < 0 {
		a.maxRetries = defaultMaxRetries
	}
	return a
}

// Suggest renders the screening prompt for r and parses the reply.
func (a *ClaudeAdvisor) Suggest(ctx context.Context, p *types.Project, r *types.Reference, stage types.Stage) (Suggestion, error) {
	prompt, err := renderPrompt(p, r, stage)
	if err != nil {
		return Suggestion{}, fmt.Errorf("rendering prompt: %w", err)
	}

	req := MessageRequest{Model: a.model, MaxTokens: a.maxTokens, Prompt: prompt}
	text, err := a.callWithRetry(ctx, req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("advising on %s: %w", r.ID, err)
	}

	s, err := parseSuggestion(text)
	if err != nil {
		return Suggestion{}, fmt.Errorf("advising on %s: %w", r.ID, err)
	}
	s.ReferenceID = r.ID

	a.logger.Debug("suggestion received",
		zap.String("reference", r.ID),
		zap.String("decision", string(s.Decision)))
	return s, nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

func (a *ClaudeAdvisor) callWithRetry(ctx context.Context, req MessageRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			a.logger.Debug("retrying model call", zap.Int("attempt", attempt), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := a.client.CreateMessage(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", a.maxRetries, lastErr)
}

type rawSuggestion struct {
	Suggestion string `json:"suggestion"`
	Reasoning  string `json:"reasoning"`
}

// parseSuggestion reads the JSON object in text. Surrounding prose or code
// fences are ignored. An unrecognised or pending suggestion becomes
// uncertain.
func parseSuggestion(text string) (Suggestion, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Suggestion{}, fmt.Errorf("no JSON object in model reply %q", text)
	}

	var raw rawSuggestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return Suggestion{}, fmt.Errorf("parsing model reply: %w", err)
	}

	d, ok := types.ParseDecision(raw.Suggestion)
	if !ok || d == types.DecisionPending {
		d = types.DecisionUncertain
	}
	reasoning := strings.TrimSpace(raw.Reasoning)
	if reasoning == "" {
		reasoning = "no reasoning given"
	}
	return Suggestion{Decision: d, Reasoning: reasoning}, nil
}

// SuggestAll asks adv about each reference concurrently. Results are in
// input order. A failed reference leaves its slot zero-valued and its error
// in errs at the same index; only cancellation aborts the batch.
func SuggestAll(ctx context.Context, adv Advisor, p *types.Project, refs []*types.Reference, stage types.Stage) ([]Suggestion, []error, error) {
	out := make([]Suggestion, len(refs))
	errs := make([]error, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, r := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := adv.Suggest(ctx, p, r, stage)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
				return nil
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return out, errs, nil
}
