package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the payload served by the health endpoint.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Reviewer string `json:"reviewer"`
}

// Service encapsulates health-related checks.
type Service struct {
	db            Pinger
	llmConfigured bool
}

// NewService constructs a new health service. db may be nil when records live in memory.
func NewService(db Pinger, llmConfigured bool) *Service {
	return &Service{db: db, llmConfigured: llmConfigured}
}

// Status reports readiness. Only an unreachable database makes it not ok.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", Reviewer: "fallback"}
	if s.llmConfigured {
		st.Reviewer = "llm"
	}
	if s.db == nil {
		return st
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		st.OK = false
		st.Database = "down"
		return st
	}
	st.Database = "up"
	return st
}
