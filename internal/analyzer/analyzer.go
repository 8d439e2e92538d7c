// Package analyzer turns a free-text interview answer into a
// structured evaluation by prompting the generation service and
// parsing its (often messy) JSON output.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/visionhire/backend/internal/genai"
)

// Analysis is the structured evaluation of one answer. The zero value
// (no keywords, score 0) is the documented fallback whenever the model
// is unavailable or its output cannot be parsed.
type Analysis struct {
	Keywords []string `json:"keywords"`
	Score    float64  `json:"score"`
	Reason   string   `json:"reason"`
	FollowUp string   `json:"followup"`
}

// Analyzer evaluates answers through the generation client.
type Analyzer struct {
	client *genai.Client
	logger *slog.Logger
}

// New creates an Analyzer.
func New(client *genai.Client, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		client: client,
		logger: logger,
	}
}

// Analyze evaluates an answer against the question it was given for.
// It never fails: any generation or parse problem degrades to the zero
// Analysis so the interview can always advance.
func (a *Analyzer) Analyze(ctx context.Context, answer, question string) Analysis {
	if !a.client.Enabled() {
		return Analysis{}
	}

	text, err := a.client.Generate(ctx, buildEvaluationPrompt(answer, question))
	if err != nil {
		a.logger.Warn("answer analysis degraded to zero score", "error", err)
		return Analysis{}
	}

	analysis, ok := decodeAnalysis(text)
	if !ok {
		a.logger.Warn("could not parse analysis from model output")
		return Analysis{}
	}
	return analysis
}

func buildEvaluationPrompt(answer, question string) string {
	return fmt.Sprintf(`You are an AI interviewer evaluator.
Analyze the following answer for important keywords, correctness, and depth.

Question: %q
Answer: %q

Output strictly in JSON:
{
  "keywords": ["list", "of", "main", "concepts"],
  "score": <number from 0 to 5 inclusive, where 5 is excellent and 0 is incorrect/absent>,
  "reason": "one short sentence explaining the score in plain language",
  "followup": "one short follow-up question related to the same topic"
}`, question, answer)
}

// decodeAnalysis locates the first balanced JSON object in the model
// output and decodes it. Returns false when no valid object is found;
// callers apply the zero-value fallback.
func decodeAnalysis(text string) (Analysis, bool) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return Analysis{}, false
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return Analysis{}, false
	}

	if analysis.Keywords == nil {
		analysis.Keywords = []string{}
	}
	analysis.Reason = strings.TrimSpace(analysis.Reason)
	analysis.FollowUp = strings.TrimSpace(analysis.FollowUp)
	return analysis, true
}

// extractJSON finds the outermost JSON object in a string.
// It handles nested braces correctly and skips braces inside quoted strings.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
