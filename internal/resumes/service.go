package resumes

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"resume-screener/internal/analysis"
	"resume-screener/internal/queue"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/telemetry"
	"resume-screener/internal/shared/util"
)

// MetaStorageKey records where the original upload was stored.
const MetaStorageKey = "storage_key"

const DefaultConcurrency = 4

// Upload is one file of a batch.
type Upload struct {
	FileName string
	Data     []byte
}

// Analyzer runs the document pipeline for one upload.
type Analyzer interface {
	Analyze(ctx context.Context, in analysis.Input) analysis.Result
}

// Service analyzes uploads and persists the results.
// Store and Events are optional.
type Service struct {
	Repo        Repo
	Analyzer    Analyzer
	Store       object.ObjectStore
	Events      queue.Client
	Concurrency int
}

// ProcessBatch analyzes every upload independently and returns the stored records in input order.
// Only a persistence failure fails the batch; analysis, storage and event failures degrade silently.
func (s *Service) ProcessBatch(ctx context.Context, uploads []Upload, jobDescription, requestID string) ([]Record, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no files uploaded", ErrInvalidInput)
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	// A failed insert does not cancel sibling uploads; their reviews still run to completion.
	records := make([]Record, len(uploads))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, up := range uploads {
		i, up := i, up
		g.Go(func() error {
			rec, err := s.processOne(ctx, up, jobDescription, requestID)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) processOne(ctx context.Context, up Upload, jobDescription, requestID string) (Record, error) {
	res := s.Analyzer.Analyze(ctx, analysis.Input{
		FileName:       up.FileName,
		Data:           up.Data,
		JobDescription: jobDescription,
		RequestID:      requestID,
	})
	rec := FromAnalysis(res)

	if s.Store != nil {
		obj, err := s.Store.Put(ctx, up.FileName, up.Data)
		if err != nil {
			metrics.IncObjectStoreFailed()
			telemetry.Error("resume.store_failed", map[string]any{
				"request_id": requestID,
				"file_name":  up.FileName,
				"error":      util.SanitizeError(err),
			})
		} else {
			rec.Meta[MetaStorageKey] = obj.Key
		}
	}

	saved, err := s.Repo.Create(ctx, rec)
	if err != nil {
		return Record{}, fmt.Errorf("save resume %q: %w", up.FileName, err)
	}
	metrics.IncResumesProcessed()

	if s.Events != nil {
		msg := queue.NewMessage(saved.ID, saved.FileName, saved.ResumeRating, requestID)
		if err := s.Events.Send(ctx, msg); err != nil {
			metrics.IncEventPublishFailed()
			telemetry.Error("resume.event_failed", map[string]any{
				"request_id": requestID,
				"resume_id":  saved.ID,
				"error":      util.SanitizeError(err),
			})
		}
	}
	return saved, nil
}

// Get returns one stored record.
func (s *Service) Get(ctx context.Context, id int64) (Record, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns stored records newest first. limit 0 means no limit.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Record, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	return s.Repo.List(ctx, limit, offset)
}
