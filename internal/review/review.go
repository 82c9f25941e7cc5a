package review

import (
	"context"
	"strings"
	"time"

	"resume-screener/internal/llm"
	"resume-screener/internal/shared/util"
)

// Source records which branch produced a Result.
type Source string

const (
	SourceLLM          Source = "llm"
	SourceNoCredential Source = "fallback_no_credential"
	SourceFailure      Source = "fallback_failure"
)

// fallbackRating is the rating of both fallback payloads.
const fallbackRating = 7

const DefaultTimeout = 30 * time.Second

const (
	noCredentialImprovements = "• Tighten bullets; use action verbs and impact numbers.\n• Keep to 1-2 pages; prioritize recent work."
	suggestProjects          = "Add a Projects section with 2–3 quantified bullet points."
	suggestGitHub            = "Add a GitHub link showcasing your work."
	suggestTailor            = "Tailor your summary to mention 2–3 keywords from the job description."
	suggestDefault           = "Deepen relevant frameworks and tooling."

	failureImprovements = "LLM call failed; fallback suggestions. Ensure consistent formatting and quantified impact."
	failureUpskill      = "Consider practicing DSA + system design basics and strengthen key frameworks mentioned in the JD."
)

// Result is a complete review. All three content fields are always set.
type Result struct {
	Rating             int
	ImprovementAreas   string
	UpskillSuggestions string
	Source             Source
	// FailureReason is the sanitized cause when Source is SourceFailure.
	FailureReason string
}

// Reviewer rates a resume through an optional model client.
type Reviewer struct {
	client  llm.Client
	timeout time.Duration
}

// New returns a Reviewer. A nil client means no credential is configured and every review
// takes the deterministic no-credential branch.
func New(client llm.Client, timeout time.Duration) *Reviewer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reviewer{client: client, timeout: timeout}
}

// Configured reports whether reviews are sent to a model.
func (r *Reviewer) Configured() bool {
	return r != nil && r.client != nil
}

// Review never fails: model errors, malformed replies and timeouts produce the failure fallback.
func (r *Reviewer) Review(ctx context.Context, text, jobDescription string) Result {
	if !r.Configured() {
		return noCredentialResult(text, jobDescription)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.client.Complete(ctx, BuildPrompt(text, jobDescription))
	if err != nil {
		return failureResult(err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return failureResult(err)
	}
	parsed.Source = SourceLLM
	return parsed
}

func noCredentialResult(text, jobDescription string) Result {
	lower := strings.ToLower(text)
	var suggestions []string
	if !strings.Contains(lower, "project") {
		suggestions = append(suggestions, suggestProjects)
	}
	if !strings.Contains(lower, "github") {
		suggestions = append(suggestions, suggestGitHub)
	}
	if jobDescription != "" {
		suggestions = append(suggestions, suggestTailor)
	}
	upskill := strings.Join(suggestions, "\n")
	if upskill == "" {
		upskill = suggestDefault
	}
	return Result{
		Rating:             fallbackRating,
		ImprovementAreas:   noCredentialImprovements,
		UpskillSuggestions: upskill,
		Source:             SourceNoCredential,
	}
}

func failureResult(err error) Result {
	return Result{
		Rating:             fallbackRating,
		ImprovementAreas:   failureImprovements,
		UpskillSuggestions: failureUpskill,
		Source:             SourceFailure,
		FailureReason:      util.SanitizeError(err),
	}
}
