package complaints

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/kasu-ict/grievance-portal/internal/users"
	"github.com/kasu-ict/grievance-portal/pkg/apperrors"
)

// LecturerDirectory resolves assignment targets to active lecturer accounts.
type LecturerDirectory interface {
	GetLecturer(ctx context.Context, id string) (*users.User, error)
}

// Service provides the complaint store and workflow operations. The engine
// computes transitions in memory; every accepted transition is persisted as a
// read-modify-write with exactly one appended history entry.
type Service struct {
	repo      Repository
	directory LecturerDirectory
	engine    *Engine
	logger    *zap.Logger
}

func NewService(repo Repository, directory LecturerDirectory, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		engine:    NewEngine(),
		logger:    logger,
	}
}

// Submit files a new complaint for the acting student.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, actor Actor) (*Complaint, error) {
	if actor.Role != users.RoleStudent {
		return nil, apperrors.Forbidden("only a student may submit complaints")
	}

	c, err := s.engine.NewComplaint(req, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateComplaint(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Complaint submitted",
		zap.Int("complaint_id", c.ID),
		zap.String("student_id", c.StudentID),
		zap.String("course_code", c.CourseCode))

	return c, nil
}

// Assign routes a complaint to a lecturer. The target must be an existing,
// active lecturer account.
func (s *Service) Assign(ctx context.Context, complaintID int, lecturerID string, actor Actor) (*Complaint, error) {
	lecturer, err := s.directory.GetLecturer(ctx, lecturerID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, complaintID, actor, func(c *Complaint) error {
		return s.engine.Assign(c, lecturer.ID, actor)
	}, "assigned")
}

// Respond records the assigned lecturer's verdict on a complaint.
func (s *Service) Respond(ctx context.Context, complaintID int, action ResponseAction, comment string, actor Actor) (*Complaint, error) {
	return s.transition(ctx, complaintID, actor, func(c *Complaint) error {
		return s.engine.Respond(c, action, comment, actor)
	}, string(action))
}

// SupplyInfo records the owning student's answer to an information request.
func (s *Service) SupplyInfo(ctx context.Context, complaintID int, message string, actor Actor) (*Complaint, error) {
	return s.transition(ctx, complaintID, actor, func(c *Complaint) error {
		return s.engine.SupplyInfo(c, message, actor)
	}, "supplied info")
}

// Resolve closes a verified complaint.
func (s *Service) Resolve(ctx context.Context, complaintID int, finalMessage string, actor Actor) (*Complaint, error) {
	return s.transition(ctx, complaintID, actor, func(c *Complaint) error {
		return s.engine.Resolve(c, finalMessage, actor)
	}, "resolved")
}

func (s *Service) transition(ctx context.Context, complaintID int, actor Actor, apply func(*Complaint) error, what string) (*Complaint, error) {
	c, err := s.repo.GetComplaintByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NotFound("complaint", fmt.Sprintf("%d", complaintID))
	}

	if err := apply(c); err != nil {
		return nil, err
	}

	entry := c.History[len(c.History)-1]
	if err := s.repo.ApplyTransition(ctx, c, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Complaint transitioned",
		zap.Int("complaint_id", c.ID),
		zap.String("operation", what),
		zap.String("status", string(c.Status)),
		zap.String("by", actor.ID))

	return c, nil
}

// Get returns one complaint with its full history.
func (s *Service) Get(ctx context.Context, id int) (*Complaint, error) {
	c, err := s.repo.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NotFound("complaint", fmt.Sprintf("%d", id))
	}
	return c, nil
}

// List returns complaints matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Complaint, error) {
	return s.repo.ListComplaints(ctx, filter)
}

// History returns the audit trail of a complaint in chronological order.
func (s *Service) History(ctx context.Context, id int) ([]HistoryEntry, error) {
	c, err := s.repo.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NotFound("complaint", fmt.Sprintf("%d", id))
	}
	return c.History, nil
}

// GetStats aggregates the admin analytics summary over all complaints.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	all, err := s.repo.ListComplaints(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(all)}
	rejected := 0
	courseCounts := make(map[string]int)
	for _, c := range all {
		switch c.Status {
		case StatusResolved:
			stats.Resolved++
		case StatusRejected:
			rejected++
		case StatusAdminVerify:
			stats.VerificationNeeded++
			stats.Open++
		default:
			stats.Open++
		}

		title := c.CourseTitle
		if title == "" {
			title = c.Type
		}
		courseCounts[fmt.Sprintf("%s - %s", c.CourseCode, title)]++
	}

	if stats.Total > 0 {
		rate := float64(rejected) / float64(stats.Total) * 100
		stats.RejectionRate = math.Round(rate*10) / 10
	}

	for course, count := range courseCounts {
		stats.TopCourses = append(stats.TopCourses, CourseCount{Course: course, Count: count})
	}
	sort.Slice(stats.TopCourses, func(i, j int) bool {
		if stats.TopCourses[i].Count != stats.TopCourses[j].Count {
			return stats.TopCourses[i].Count > stats.TopCourses[j].Count
		}
		return stats.TopCourses[i].Course < stats.TopCourses[j].Course
	})
	if len(stats.TopCourses) > 5 {
		stats.TopCourses = stats.TopCourses[:5]
	}

	return stats, nil
}
