package review

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// maxPromptRunes caps the resume excerpt embedded in the prompt.
const maxPromptRunes = 12000

const (
	keyRating      = "resume_rating"
	keyImprovement = "improvement_areas"
	keyUpskill     = "upskill_suggestions"
)

// ErrMalformed is returned by Parse for any reply that is not exactly the expected object.
var ErrMalformed = errors.New("malformed review response")

// BuildPrompt renders the recruiter prompt for one resume.
func BuildPrompt(text, jobDescription string) string {
	var b strings.Builder
	b.WriteString("Act as a senior technical recruiter.\n")
	b.WriteString("Given this resume text (triple backticks) and job description (if any), return a concise JSON with:\n")
	b.WriteString("- resume_rating (1-10)\n")
	b.WriteString("- improvement_areas (string with bullet-like lines)\n")
	b.WriteString("- upskill_suggestions (string with bullet-like lines)\n\n")
	b.WriteString("Resume:\n```")
	b.WriteString(truncateRunes(text, maxPromptRunes))
	b.WriteString("```\n\n")
	b.WriteString("Job description (optional):\n```")
	b.WriteString(jobDescription)
	b.WriteString("```\n\n")
	b.WriteString("Respond with ONLY valid JSON with keys: resume_rating, improvement_areas, upskill_suggestions.\n")
	return b.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Parse validates a model reply. The reply must be a single JSON object with exactly
// resume_rating (integer 0-10), improvement_areas and upskill_suggestions (strings).
func Parse(raw string) (Result, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return Result{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Result{}, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	if len(fields) != 3 {
		return Result{}, fmt.Errorf("%w: expected 3 keys, got %d", ErrMalformed, len(fields))
	}

	rating, err := parseRating(fields[keyRating])
	if err != nil {
		return Result{}, err
	}
	improvement, err := parseString(keyImprovement, fields[keyImprovement])
	if err != nil {
		return Result{}, err
	}
	upskill, err := parseString(keyUpskill, fields[keyUpskill])
	if err != nil {
		return Result{}, err
	}
	return Result{
		Rating:             rating,
		ImprovementAreas:   improvement,
		UpskillSuggestions: upskill,
	}, nil
}

func parseRating(raw json.RawMessage) (int, error) {
	if raw == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformed, keyRating)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '-' && (trimmed[0] < '0' || trimmed[0] > '9')) {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMalformed, keyRating)
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMalformed, keyRating)
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformed, keyRating)
	}
	if f < 0 || f > 10 {
		return 0, fmt.Errorf("%w: %s out of range", ErrMalformed, keyRating)
	}
	return int(f), nil
}

func parseString(key string, raw json.RawMessage) (string, error) {
	if raw == nil {
		return "", fmt.Errorf("%w: missing %s", ErrMalformed, key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", ErrMalformed, key)
	}
	return s, nil
}
