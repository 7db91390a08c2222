package complaints

import (
	"fmt"
	"strings"
	"time"

	"github.com/kasu-ict/grievance-portal/internal/users"
	"github.com/kasu-ict/grievance-portal/pkg/apperrors"
	"github.com/kasu-ict/grievance-portal/pkg/workflows"
)

// Actor is the authenticated user performing a workflow operation.
type Actor struct {
	ID   string
	Role users.Role
}

// ResponseAction is a lecturer's verdict on an assigned case.
type ResponseAction string

const (
	ActionApprove     ResponseAction = "approve"
	ActionReject      ResponseAction = "reject"
	ActionRequestInfo ResponseAction = "request_info"
)

// Engine applies workflow transitions to a complaint in memory. Every
// transition is a named operation: there is no generic "set status" path, and
// both the legal predecessor states and the acting role are enforced here
// rather than left to callers.
type Engine struct {
	machine *workflows.StateMachine
	now     func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		machine: workflows.NewStateMachine(map[string][]string{
			string(StatusPending):  {string(StatusSentToLecturer)},
			string(StatusReceived): {string(StatusSentToLecturer)},
			string(StatusSentToLecturer): {
				string(StatusSentToLecturer), // re-assignment of an unresponded case
				string(StatusAdminVerify),
				string(StatusRejected),
				string(StatusAwaitingStudent),
			},
			string(StatusUnderReview): {
				string(StatusSentToLecturer),
				string(StatusAdminVerify),
				string(StatusRejected),
				string(StatusAwaitingStudent),
			},
			string(StatusAwaitingStudent): {string(StatusUnderReview)},
			string(StatusAdminVerify):     {string(StatusResolved)},
			string(StatusResolved):        {},
			string(StatusRejected):        {},
		}),
		now: time.Now,
	}
}

// NewComplaint validates a submission and builds the initial case record.
// The ID is left unset; the store allocates it on insert.
func (e *Engine) NewComplaint(req SubmitRequest, studentID string) (*Complaint, error) {
	if strings.TrimSpace(req.CourseCode) == "" {
		return nil, apperrors.InvalidInput("course_code", "is required")
	}
	if strings.TrimSpace(req.LecturerName) == "" {
		return nil, apperrors.InvalidInput("lecturer_name", "is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.InvalidInput("description", "is required")
	}

	now := e.now()
	return &Complaint{
		StudentID:     studentID,
		CourseCode:    req.CourseCode,
		CourseTitle:   req.CourseTitle,
		LecturerName:  req.LecturerName,
		Department:    req.Department,
		Type:          req.Type,
		Description:   req.Description,
		EvidenceFile:  req.EvidenceFile,
		DateSubmitted: now,
		Status:        StatusReceived,
		AssignedToID:  nil,
		Feedback:      "",
		History: []HistoryEntry{
			{Date: now, Action: "Complaint submitted", By: studentID},
		},
	}, nil
}

// Assign routes the case to a lecturer for review. Admin only. Open cases
// that the lecturer has not yet responded to may be re-assigned; cases already
// awaiting verification, awaiting the student or closed may not.
func (e *Engine) Assign(c *Complaint, lecturerID string, actor Actor) error {
	if actor.Role != users.RoleAdmin {
		return apperrors.Forbidden("only an admin may assign complaints")
	}
	if err := e.checkTransition(c, StatusSentToLecturer); err != nil {
		return err
	}

	c.Status = StatusSentToLecturer
	c.AssignedToID = &lecturerID
	e.append(c, fmt.Sprintf("Assigned to %s", lecturerID), actor.ID)
	return nil
}

// Respond records the assigned lecturer's verdict. Approval parks the case for
// admin verification, rejection closes it, and an information request hands it
// back to the student.
func (e *Engine) Respond(c *Complaint, action ResponseAction, comment string, actor Actor) error {
	if actor.Role != users.RoleLecturer {
		return apperrors.Forbidden("only a lecturer may respond to complaints")
	}
	if c.AssignedToID == nil || !strings.EqualFold(*c.AssignedToID, actor.ID) {
		return apperrors.Forbidden("complaint is not assigned to this lecturer")
	}
	if strings.TrimSpace(comment) == "" {
		return apperrors.InvalidInput("comment", "is required")
	}

	var newStatus Status
	var actionMessage string
	switch action {
	case ActionApprove:
		newStatus = StatusAdminVerify
		actionMessage = fmt.Sprintf("Lecturer recommended Approval. Waiting Admin Verification. Comment: %s", comment)
	case ActionReject:
		newStatus = StatusRejected
		actionMessage = fmt.Sprintf("Lecturer recommended Rejection. Comment: %s", comment)
	case ActionRequestInfo:
		newStatus = StatusAwaitingStudent
		actionMessage = fmt.Sprintf("Lecturer requested more information from student. Comment: %s", comment)
	default:
		return apperrors.InvalidInput("action", "must be approve, reject or request_info")
	}

	if err := e.checkTransition(c, newStatus); err != nil {
		return err
	}

	c.Status = newStatus
	c.Feedback = comment
	e.append(c, actionMessage, actor.ID)
	return nil
}

// SupplyInfo is the student answering a lecturer's information request; the
// case returns to review.
func (e *Engine) SupplyInfo(c *Complaint, message string, actor Actor) error {
	if actor.Role != users.RoleStudent {
		return apperrors.Forbidden("only a student may supply requested information")
	}
	if !strings.EqualFold(c.StudentID, actor.ID) {
		return apperrors.Forbidden("complaint belongs to a different student")
	}
	if strings.TrimSpace(message) == "" {
		return apperrors.InvalidInput("message", "is required")
	}
	if err := e.checkTransition(c, StatusUnderReview); err != nil {
		return err
	}

	c.Status = StatusUnderReview
	e.append(c, fmt.Sprintf("Student provided requested information: %q", truncate(message, 70)), actor.ID)
	return nil
}

// Resolve is the admin's final closure of a verified case. Only cases in
// Admin Verification may be resolved.
func (e *Engine) Resolve(c *Complaint, finalMessage string, actor Actor) error {
	if actor.Role != users.RoleAdmin {
		return apperrors.Forbidden("only an admin may resolve complaints")
	}
	if err := e.checkTransition(c, StatusResolved); err != nil {
		return err
	}

	c.Status = StatusResolved
	c.Feedback = finalMessage
	e.append(c, "Admin Verified and Resolved. Case Closed.", actor.ID)
	return nil
}

func (e *Engine) checkTransition(c *Complaint, to Status) error {
	if e.machine.IsTerminal(string(c.Status)) {
		return apperrors.Conflict(fmt.Sprintf("complaint %d is closed (status %q)", c.ID, c.Status))
	}
	if !e.machine.CanTransition(string(c.Status), string(to)) {
		return apperrors.Conflict(fmt.Sprintf("cannot move complaint %d from %q to %q", c.ID, c.Status, to))
	}
	return nil
}

func (e *Engine) append(c *Complaint, action, by string) {
	c.History = append(c.History, HistoryEntry{
		ComplaintID: c.ID,
		Date:        e.now(),
		Action:      action,
		By:          by,
	})
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
