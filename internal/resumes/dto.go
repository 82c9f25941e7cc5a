package resumes

import "time"

// parsedItem is one entry of the POST /api/parse response.
type parsedItem struct {
	ID                 int64    `json:"id"`
	FileName           string   `json:"file_name"`
	Name               string   `json:"name"`
	Email              *string  `json:"email"`
	Phone              *string  `json:"phone"`
	Links              []string `json:"links"`
	CoreSkills         []string `json:"core_skills"`
	ResumeRating       int      `json:"resume_rating"`
	ImprovementAreas   string   `json:"improvement_areas"`
	UpskillSuggestions string   `json:"upskill_suggestions"`
}

type parseResponse struct {
	OK    bool         `json:"ok"`
	Count int          `json:"count"`
	Items []parsedItem `json:"items"`
}

type summaryResponse struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"file_name"`
	Name         string    `json:"name"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	CoreSkills   []string  `json:"core_skills"`
	ResumeRating int       `json:"resume_rating"`
	CreatedAt    time.Time `json:"created_at"`
}

type detailResponse struct {
	ID                 int64          `json:"id"`
	FileName           string         `json:"file_name"`
	Name               string         `json:"name"`
	Email              *string        `json:"email"`
	Phone              *string        `json:"phone"`
	Emails             []string       `json:"emails"`
	Phones             []string       `json:"phones"`
	Links              []string       `json:"links"`
	CoreSkills         []string       `json:"core_skills"`
	ResumeRating       int            `json:"resume_rating"`
	ImprovementAreas   string         `json:"improvement_areas"`
	UpskillSuggestions string         `json:"upskill_suggestions"`
	RawText            string         `json:"raw_text"`
	Meta               map[string]any `json:"meta"`
	CreatedAt          time.Time      `json:"created_at"`
}

func toParsedItem(rec Record) parsedItem {
	return parsedItem{
		ID:                 rec.ID,
		FileName:           rec.FileName,
		Name:               rec.Name,
		Email:              optional(rec.Email),
		Phone:              optional(rec.Phone),
		Links:              nonNil(rec.Links),
		CoreSkills:         nonNil(rec.CoreSkills),
		ResumeRating:       rec.ResumeRating,
		ImprovementAreas:   rec.ImprovementAreas,
		UpskillSuggestions: rec.UpskillSuggestions,
	}
}

func toSummary(rec Record) summaryResponse {
	return summaryResponse{
		ID:           rec.ID,
		FileName:     rec.FileName,
		Name:         rec.Name,
		Email:        optional(rec.Email),
		Phone:        optional(rec.Phone),
		CoreSkills:   nonNil(rec.CoreSkills),
		ResumeRating: rec.ResumeRating,
		CreatedAt:    rec.CreatedAt,
	}
}

func toDetail(rec Record) detailResponse {
	meta := rec.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return detailResponse{
		ID:                 rec.ID,
		FileName:           rec.FileName,
		Name:               rec.Name,
		Email:              optional(rec.Email),
		Phone:              optional(rec.Phone),
		Emails:             nonNil(rec.Emails),
		Phones:             nonNil(rec.Phones),
		Links:              nonNil(rec.Links),
		CoreSkills:         nonNil(rec.CoreSkills),
		ResumeRating:       rec.ResumeRating,
		ImprovementAreas:   rec.ImprovementAreas,
		UpskillSuggestions: rec.UpskillSuggestions,
		RawText:            rec.RawText,
		Meta:               meta,
		CreatedAt:          rec.CreatedAt,
	}
}

// optional maps "" to JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
