package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kasu-ict/grievance-portal/internal/complaints"
)

// StaleSweeper reports cases that have sat in Awaiting Student Response longer
// than the configured age. It only logs a reminder digest; it never mutates
// workflow state.
type StaleSweeper struct {
	repo   complaints.Repository
	maxAge time.Duration
	logger *zap.Logger
}

func NewStaleSweeper(repo complaints.Repository, maxAge time.Duration, logger *zap.Logger) *StaleSweeper {
	return &StaleSweeper{repo: repo, maxAge: maxAge, logger: logger}
}

// Run executes one sweep. Wired to a cron schedule in main.
func (s *StaleSweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.maxAge)
	stale, err := s.repo.ListAwaitingStudentSince(ctx, cutoff)
	if err != nil {
		s.logger.Error("Stale-case sweep failed", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	for _, c := range stale {
		s.logger.Warn("Complaint awaiting student response past reminder age",
			zap.Int("complaint_id", c.ID),
			zap.String("student_id", c.StudentID),
			zap.String("course_code", c.CourseCode))
	}
	s.logger.Info("Stale-case sweep complete", zap.Int("stale_count", len(stale)))
}
