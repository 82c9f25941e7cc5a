package main

// Analyze one resume without persisting it:
//   go run ./cmd/analyze -jd "Senior Go engineer" ./cv.pdf

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"

	"resume-screener/internal/analysis"
	"resume-screener/internal/bootstrap"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/telemetry"
)

type output struct {
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
	ReviewSource       string         `json:"review_source"`
	Meta               map[string]any `json:"meta"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jd := fs.String("jd", "", "job description to review against")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: analyze [-jd text] <file>")
		return 2
	}
	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "read %s: %v\n", path, err)
		return 1
	}

	// stdout carries only the analysis document; logs go to stderr.
	prev := telemetry.SetLogger(telemetry.New(zapcore.AddSync(stderr)))
	defer telemetry.SetLogger(prev)
	defer telemetry.Sync()

	ctx := context.Background()
	pipeline, closer := bootstrap.BuildPipeline(ctx, config.Load())
	if closer != nil {
		defer closer()
	}

	res := pipeline.Analyze(ctx, analysis.Input{
		FileName:       filepath.Base(path),
		Data:           data,
		JobDescription: *jd,
	})

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toOutput(res)); err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return 1
	}
	return 0
}

func toOutput(res analysis.Result) output {
	return output{
		FileName:           res.FileName,
		Name:               res.Name,
		Email:              optional(res.Email()),
		Phone:              optional(res.Phone()),
		Emails:             nonNil(res.Signals.Emails),
		Phones:             nonNil(res.Signals.Phones),
		Links:              nonNil(res.Signals.URLs),
		CoreSkills:         nonNil(res.Signals.Skills),
		ResumeRating:       res.Rating,
		ImprovementAreas:   res.Review.ImprovementAreas,
		UpskillSuggestions: res.Review.UpskillSuggestions,
		ReviewSource:       string(res.Review.Source),
		Meta:               res.Meta,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
