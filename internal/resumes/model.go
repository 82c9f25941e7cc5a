package resumes

import (
	"time"

	"resume-screener/internal/analysis"
)

// Record is one analyzed upload. It is created once and never updated.
type Record struct {
	ID                 int64
	FileName           string
	Name               string
	Email              string
	Phone              string
	Emails             []string
	Phones             []string
	Links              []string
	CoreSkills         []string
	ResumeRating       int
	ImprovementAreas   string
	UpskillSuggestions string
	RawText            string
	Meta               map[string]any
	CreatedAt          time.Time
}

// FromAnalysis maps a pipeline result onto an unsaved record.
func FromAnalysis(res analysis.Result) Record {
	meta := make(map[string]any, len(res.Meta))
	for k, v := range res.Meta {
		meta[k] = v
	}
	return Record{
		FileName:           res.FileName,
		Name:               res.Name,
		Email:              res.Email(),
		Phone:              res.Phone(),
		Emails:             nonNil(res.Signals.Emails),
		Phones:             nonNil(res.Signals.Phones),
		Links:              nonNil(res.Signals.URLs),
		CoreSkills:         nonNil(res.Signals.Skills),
		ResumeRating:       res.Rating,
		ImprovementAreas:   res.Review.ImprovementAreas,
		UpskillSuggestions: res.Review.UpskillSuggestions,
		RawText:            res.Text,
		Meta:               meta,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
