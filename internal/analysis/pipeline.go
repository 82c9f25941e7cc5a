package analysis

import (
	"context"
	"strings"
	"time"
	"unicode"

	"resume-screener/internal/extract"
	"resume-screener/internal/review"
	"resume-screener/internal/scoring"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/telemetry"
	"resume-screener/internal/shared/util"
	"resume-screener/internal/signals"
)

// Meta keys recorded on every analysis.
const (
	MetaJobDescriptionPresent = "job_description_present"
	MetaReviewSource          = "review_source"
	MetaContentSHA256         = "content_sha256"
)

// Input is one uploaded document.
type Input struct {
	FileName       string
	Data           []byte
	JobDescription string
	RequestID      string
}

// Result is the merged output of one pipeline run.
type Result struct {
	FileName string
	Text     string
	Signals  signals.Set
	// Name is the guessed name, or a display name derived from the first email.
	Name   string
	Review review.Result
	// Rating is the review rating, or the heuristic rating when the review rating is zero.
	Rating int
	Meta   map[string]any
}

// Email returns the first email found, or "".
func (r Result) Email() string {
	return first(r.Signals.Emails)
}

// Phone returns the first phone found, or "".
func (r Result) Phone() string {
	return first(r.Signals.Phones)
}

// Pipeline runs extraction, signal recognition and review for a single document.
// It holds no per-document state and is safe for concurrent use.
type Pipeline struct {
	reviewer *review.Reviewer
}

func New(reviewer *review.Reviewer) *Pipeline {
	if reviewer == nil {
		reviewer = review.New(nil, 0)
	}
	return &Pipeline{reviewer: reviewer}
}

// ReviewConfigured reports whether reviews reach a model.
func (p *Pipeline) ReviewConfigured() bool {
	return p.reviewer.Configured()
}

// Analyze never fails; degraded inputs degrade the output instead.
func (p *Pipeline) Analyze(ctx context.Context, in Input) Result {
	started := time.Now()

	text, extractErr := extract.Extract(in.Data)
	if text == "" {
		metrics.IncExtractEmpty()
	}
	set := signals.Extract(text)
	rev := p.reviewer.Review(ctx, text, in.JobDescription)

	rating := rev.Rating
	if rating == 0 {
		rating = scoring.Rate(len(set.Skills))
	}

	name := set.Name
	if name == "" && len(set.Emails) > 0 {
		name = NameFromEmail(set.Emails[0])
	}

	res := Result{
		FileName: in.FileName,
		Text:     text,
		Signals:  set,
		Name:     name,
		Review:   rev,
		Rating:   rating,
		Meta: map[string]any{
			MetaJobDescriptionPresent: in.JobDescription != "",
			MetaReviewSource:          string(rev.Source),
			MetaContentSHA256:         util.ContentHash(in.Data),
		},
	}

	switch rev.Source {
	case review.SourceLLM:
		metrics.IncReviewLLM()
	case review.SourceNoCredential:
		metrics.IncReviewFallback("no_credential")
	default:
		metrics.IncReviewFallback("failure")
	}
	elapsed := float64(time.Since(started).Milliseconds())
	metrics.ObserveAnalysisDurationMs(elapsed)

	fields := map[string]any{
		"request_id":    in.RequestID,
		"file_name":     in.FileName,
		"bytes":         len(in.Data),
		"text_chars":    len(text),
		"skills":        len(set.Skills),
		"review_source": string(rev.Source),
		"rating":        rating,
		"duration_ms":   elapsed,
	}
	if extractErr != nil {
		fields["extract_error"] = util.SanitizeError(extractErr)
	}
	if rev.FailureReason != "" {
		fields["review_error"] = rev.FailureReason
	}
	telemetry.Info("resume.analyzed", fields)
	return res
}

// NameFromEmail turns "jane.doe@x.io" into "Jane Doe".
func NameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	return titleCase(strings.ReplaceAll(local, ".", " "))
}

// titleCase upper-cases the first letter of every letter run and lower-cases the rest,
// so "o'neil" becomes "O'Neil" and "jdoe2x" becomes "Jdoe2X".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		switch {
		case cased && prevCased:
			b.WriteRune(unicode.ToLower(r))
		case cased:
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}
