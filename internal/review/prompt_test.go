package review

import (
	"strings"
	"testing"
)

func TestBuildPromptTruncatesResume(t *testing.T) {
	text := strings.Repeat("é", maxPromptRunes+50)
	prompt := BuildPrompt(text, "")
	if strings.Count(prompt, "é") != maxPromptRunes {
		t.Fatalf("expected %d runes of resume text, got %d", maxPromptRunes, strings.Count(prompt, "é"))
	}
	if !strings.Contains(prompt, "Act as a senior technical recruiter.") {
		t.Fatalf("missing role line")
	}
	if !strings.HasSuffix(prompt, "Respond with ONLY valid JSON with keys: resume_rating, improvement_areas, upskill_suggestions.\n") {
		t.Fatalf("missing response instruction")
	}
	if !strings.Contains(prompt, "Job description (optional):\n``````") {
		t.Fatalf("expected empty job description block")
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(" {\"upskill_suggestions\":\"u\",\"resume_rating\":9.0,\"improvement_areas\":\"i\"}\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Rating != 9 || got.ImprovementAreas != "i" || got.UpskillSuggestions != "u" {
		t.Fatalf("unexpected result %+v", got)
	}

	if _, err := Parse(`{"resume_rating":9,"improvement_areas":"i","upskill_suggestions":"u"} trailing`); err == nil {
		t.Fatalf("expected trailing data to be rejected")
	}
}
