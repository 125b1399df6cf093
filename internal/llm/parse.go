package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Mikael-duru/mockwise/internal/agent"
	"github.com/Mikael-duru/mockwise/internal/prompts"
)

// ParseQuestions parses the model output into an ordered question list.
// The output contract is a flat JSON array of strings; "/" and "*" are
// stripped because the questions are read aloud by a voice synthesizer.
func ParseQuestions(text string) ([]string, error) {
	var raw []string
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("questions are not a JSON string array: %w", err)
	}
	questions := make([]string, 0, len(raw))
	for _, q := range raw {
		q = strings.TrimSpace(sanitizeForVoice(q))
		if q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions generated")
	}
	return questions, nil
}

func sanitizeForVoice(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '*' {
			return -1
		}
		return r
	}, s)
}

// ParseFeedback parses and validates the grading output: the five fixed
// categories must all be present (extra ones are rejected) and every
// score is clamped to [0,100].
func ParseFeedback(text string) (*agent.FeedbackResult, error) {
	var res agent.FeedbackResult
	if err := json.Unmarshal([]byte(stripFences(text)), &res); err != nil {
		return nil, fmt.Errorf("feedback is not a JSON object: %w", err)
	}

	if len(res.CategoryScores) != len(prompts.FeedbackCategories) {
		return nil, fmt.Errorf("expected %d category scores, got %d",
			len(prompts.FeedbackCategories), len(res.CategoryScores))
	}
	byName := make(map[string]agent.CategoryScore, len(res.CategoryScores))
	for _, cs := range res.CategoryScores {
		byName[normalizeCategory(cs.Name)] = cs
	}
	ordered := make([]agent.CategoryScore, 0, len(prompts.FeedbackCategories))
	for _, name := range prompts.FeedbackCategories {
		cs, ok := byName[normalizeCategory(name)]
		if !ok {
			return nil, fmt.Errorf("missing category score %q", name)
		}
		cs.Name = name
		cs.Score = clampScore(cs.Score)
		ordered = append(ordered, cs)
	}
	res.CategoryScores = ordered
	res.TotalScore = clampScore(res.TotalScore)
	return &res, nil
}

func normalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
