package complaints

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kasu-ict/grievance-portal/internal/users"
	"github.com/kasu-ict/grievance-portal/pkg/apperrors"
)

var (
	student  = Actor{ID: "s1", Role: users.RoleStudent}
	lecturer = Actor{ID: "l1", Role: users.RoleLecturer}
	admin    = Actor{ID: "admin1", Role: users.RoleAdmin}
)

func validSubmission() SubmitRequest {
	return SubmitRequest{
		CourseCode:   "CSC401",
		CourseTitle:  "Compiler Construction",
		LecturerName: "Dr. Bello",
		Department:   "Computer Science",
		Type:         "Missing results",
		Description:  "missing",
	}
}

func TestNewComplaint(t *testing.T) {
	engine := NewEngine()

	c, err := engine.NewComplaint(validSubmission(), student.ID)

	assert.NoError(t, err)
	assert.Equal(t, StatusReceived, c.Status)
	assert.Nil(t, c.AssignedToID)
	assert.Equal(t, "", c.Feedback)
	assert.Len(t, c.History, 1)
	assert.Equal(t, "Complaint submitted", c.History[0].Action)
	assert.Equal(t, "s1", c.History[0].By)
}

func TestNewComplaintRequiredFields(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name   string
		mutate func(*SubmitRequest)
	}{
		{"missing course code", func(r *SubmitRequest) { r.CourseCode = "" }},
		{"missing lecturer name", func(r *SubmitRequest) { r.LecturerName = "  " }},
		{"missing description", func(r *SubmitRequest) { r.Description = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmission()
			tt.mutate(&req)

			c, err := engine.NewComplaint(req, student.ID)

			assert.Nil(t, c)
			assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
		})
	}
}

func TestAssign(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)

	err := engine.Assign(c, "l1", admin)

	assert.NoError(t, err)
	assert.Equal(t, StatusSentToLecturer, c.Status)
	assert.Equal(t, "l1", *c.AssignedToID)
	assert.Len(t, c.History, 2)
	assert.Equal(t, "Assigned to l1", c.History[1].Action)
	assert.Equal(t, "admin1", c.History[1].By)
}

func TestAssignLegacyPendingStatus(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)
	c.Status = StatusPending

	assert.NoError(t, engine.Assign(c, "l1", admin))
	assert.Equal(t, StatusSentToLecturer, c.Status)
}

func TestReassignUnrespondedCase(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)
	assert.NoError(t, engine.Assign(c, "l1", admin))

	err := engine.Assign(c, "l2", admin)

	assert.NoError(t, err)
	assert.Equal(t, "l2", *c.AssignedToID)
	assert.Len(t, c.History, 3)
}

func TestAssignRequiresAdmin(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)

	err := engine.Assign(c, "l1", lecturer)

	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	assert.Equal(t, StatusReceived, c.Status)
	assert.Len(t, c.History, 1)
}

func TestRespondStatusMapping(t *testing.T) {
	tests := []struct {
		action ResponseAction
		want   Status
	}{
		{ActionApprove, StatusAdminVerify},
		{ActionReject, StatusRejected},
		{ActionRequestInfo, StatusAwaitingStudent},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			engine := NewEngine()
			c, _ := engine.NewComplaint(validSubmission(), student.ID)
			assert.NoError(t, engine.Assign(c, "l1", admin))

			err := engine.Respond(c, tt.action, "checked the script", lecturer)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, c.Status)
			assert.Equal(t, "checked the script", c.Feedback)
			assert.Len(t, c.History, 3)
			assert.Contains(t, c.History[2].Action, "checked the script")
		})
	}
}

func TestRespondOnlyByAssignedLecturer(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)
	assert.NoError(t, engine.Assign(c, "l1", admin))

	other := Actor{ID: "l2", Role: users.RoleLecturer}
	err := engine.Respond(c, ActionApprove, "not mine", other)

	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	assert.Equal(t, StatusSentToLecturer, c.Status)
}

func TestRespondUnassignedCase(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)

	err := engine.Respond(c, ActionApprove, "ok", lecturer)

	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestRespondRequiresComment(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)
	assert.NoError(t, engine.Assign(c, "l1", admin))

	err := engine.Respond(c, ActionApprove, "   ", lecturer)

	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestSupplyInfo(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)
	assert.NoError(t, engine.Assign(c, "l1", admin))
	assert.NoError(t, engine.Respond(c, ActionRequestInfo, "send your CA slip", lecturer))

	err := engine.SupplyInfo(c, "attached the CA slip", student)

	assert.NoError(t, err)
	assert.Equal(t, StatusUnderReview, c.Status)
	assert.Len(t, c.History, 4)
	assert.Equal(t, `Student provided requested information: "attached the CA slip"`, c.History[3].Action)
}

func TestSupplyInfoTruncatesLongMessages(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)
	assert.NoError(t, engine.Assign(c, "l1", admin))
	assert.NoError(t, engine.Respond(c, ActionRequestInfo, "details please", lecturer))

	long := strings.Repeat("x", 100)
	assert.NoError(t, engine.SupplyInfo(c, long, student))

	want := `Student provided requested information: "` + strings.Repeat("x", 70) + `..."`
	assert.Equal(t, want, c.History[3].Action)
}

func TestSupplyInfoOnlyByOwner(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)
	assert.NoError(t, engine.Assign(c, "l1", admin))
	assert.NoError(t, engine.Respond(c, ActionRequestInfo, "details please", lecturer))

	other := Actor{ID: "s2", Role: users.RoleStudent}
	err := engine.SupplyInfo(c, "info", other)

	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	assert.Equal(t, StatusAwaitingStudent, c.Status)
}

func TestSupplyInfoWrongState(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)

	err := engine.SupplyInfo(c, "info", student)

	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestResolve(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)
	assert.NoError(t, engine.Assign(c, "l1", admin))
	assert.NoError(t, engine.Respond(c, ActionApprove, "score corrected", lecturer))

	err := engine.Resolve(c, "result updated, case closed", admin)

	assert.NoError(t, err)
	assert.Equal(t, StatusResolved, c.Status)
	assert.Equal(t, "result updated, case closed", c.Feedback)
	assert.Equal(t, "Admin Verified and Resolved. Case Closed.", c.History[len(c.History)-1].Action)
}

func TestResolveOnlyFromAdminVerification(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)

	err := engine.Resolve(c, "closing", admin)

	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
	assert.Equal(t, StatusReceived, c.Status)
}

func TestTerminalStatesRejectAllTransitions(t *testing.T) {
	for _, terminal := range []Status{StatusResolved, StatusRejected} {
		t.Run(string(terminal), func(t *testing.T) {
			engine := NewEngine()
			c, _ := engine.NewComplaint(validSubmission(), student.ID)
			c.Status = terminal
			before := len(c.History)

			assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(engine.Assign(c, "l1", admin)))
			assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(engine.Resolve(c, "again", admin)))

			assert.Equal(t, terminal, c.Status)
			assert.Len(t, c.History, before)
		})
	}
}

func TestHistoryIsAppendOnly(t *testing.T) {
	engine := NewEngine()
	c, _ := engine.NewComplaint(validSubmission(), student.ID)

	steps := []func() error{
		func() error { return engine.Assign(c, "l1", admin) },
		func() error { return engine.Respond(c, ActionRequestInfo, "need the slip", lecturer) },
		func() error { return engine.SupplyInfo(c, "here it is", student) },
		func() error { return engine.Respond(c, ActionApprove, "verified", lecturer) },
		func() error { return engine.Resolve(c, "done", admin) },
	}

	for _, step := range steps {
		before := make([]HistoryEntry, len(c.History))
		copy(before, c.History)

		assert.NoError(t, step())

		assert.Len(t, c.History, len(before)+1)
		assert.Equal(t, before, c.History[:len(before)])
	}
}
