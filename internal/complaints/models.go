package complaints

import "time"

type Status string

const (
	// StatusPending is the legacy initial status; new cases start at Received
	// but old rows may still carry it, so the workflow treats both alike.
	StatusPending         Status = "Pending"
	StatusReceived        Status = "Received"
	StatusUnderReview     Status = "Under Review"
	StatusSentToLecturer  Status = "Sent to Lecturer"
	StatusAdminVerify     Status = "Admin Verification"
	StatusAwaitingStudent Status = "Awaiting Student Response"
	StatusResolved        Status = "Resolved"
	StatusRejected        Status = "Rejected"
)

// RecognizedTypes are the complaint categories offered by the submission form.
// The field itself stays free-text so new categories need no migration.
var RecognizedTypes = []string{
	"Missing results",
	"Wrong score",
	"Incomplete score (CA or Exam)",
	"Not uploaded",
	"Wrong grade",
	"Other",
}

// Complaint is a single result-grievance case. StudentID, DateSubmitted and
// the descriptive fields are immutable after submission; Status, AssignedToID,
// Feedback and History are mutated only through the workflow engine.
type Complaint struct {
	ID            int       `json:"id" db:"id"`
	StudentID     string    `json:"student_id" db:"student_id"`
	CourseCode    string    `json:"course_code" db:"course_code"`
	CourseTitle   string    `json:"course_title" db:"course_title"`
	LecturerName  string    `json:"lecturer_name" db:"lecturer_name"`
	Department    string    `json:"department" db:"department"`
	Type          string    `json:"type" db:"type"`
	Description   string    `json:"description" db:"description"`
	EvidenceFile  string    `json:"evidence_file" db:"evidence_file"`
	DateSubmitted time.Time `json:"date_submitted" db:"date_submitted"`

	Status       Status  `json:"status" db:"status"`
	AssignedToID *string `json:"assigned_to_id" db:"assigned_to_id"`
	// Feedback holds the latest staff-facing note; each staff action overwrites it.
	Feedback string         `json:"feedback" db:"feedback"`
	History  []HistoryEntry `json:"history" db:"-"`
}

// HistoryEntry is one immutable audit-log line. Entries are stored in
// chronological append order; reverse-chronological display is a presentation
// concern.
type HistoryEntry struct {
	ID          int       `json:"-" db:"id"`
	ComplaintID int       `json:"-" db:"complaint_id"`
	Date        time.Time `json:"date" db:"date"`
	Action      string    `json:"action" db:"action"`
	By          string    `json:"by,omitempty" db:"actor"`
}

// SubmitRequest carries the student-supplied fields of a new complaint.
type SubmitRequest struct {
	CourseCode   string `json:"course_code"`
	CourseTitle  string `json:"course_title"`
	LecturerName string `json:"lecturer_name"`
	Department   string `json:"department"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	EvidenceFile string `json:"evidence_file"`
}

// Filter narrows complaint listings.
type Filter struct {
	StudentID    *string
	AssignedToID *string
	Status       *Status
}

// Stats is the admin analytics summary.
type Stats struct {
	Total              int           `json:"total"`
	Resolved           int           `json:"resolved"`
	Open               int           `json:"open"`
	VerificationNeeded int           `json:"verification_needed"`
	RejectionRate      float64       `json:"rejection_rate"`
	TopCourses         []CourseCount `json:"top_courses"`
}

// CourseCount is a course with its complaint count, for the analytics view.
type CourseCount struct {
	Course string `json:"course" db:"course"`
	Count  int    `json:"count" db:"count"`
}
