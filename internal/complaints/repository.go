package complaints

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// CreateComplaint allocates the next case ID, inserts the complaint and its
	// seeded history entry atomically, and writes the ID back into c.
	CreateComplaint(ctx context.Context, c *Complaint) error
	GetComplaintByID(ctx context.Context, id int) (*Complaint, error)
	ListComplaints(ctx context.Context, filter Filter) ([]Complaint, error)
	ListHistory(ctx context.Context, complaintID int) ([]HistoryEntry, error)
	// ApplyTransition persists the workflow fields of c together with one new
	// history entry, serialized per complaint row.
	ApplyTransition(ctx context.Context, c *Complaint, entry HistoryEntry) error
	ListAwaitingStudentSince(ctx context.Context, cutoff time.Time) ([]Complaint, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateComplaint(ctx context.Context, c *Complaint) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Case IDs follow the original allocation rule: max existing + 1, or 1.
	query := `
		INSERT INTO complaints (
			id, student_id, course_code, course_title, lecturer_name, department,
			type, description, evidence_file, date_submitted, status, assigned_to_id, feedback
		) VALUES (
			(SELECT COALESCE(MAX(id), 0) + 1 FROM complaints),
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		c.StudentID, c.CourseCode, c.CourseTitle, c.LecturerName, c.Department,
		c.Type, c.Description, c.EvidenceFile, c.DateSubmitted, c.Status, c.AssignedToID, c.Feedback,
	).Scan(&c.ID)
	if err != nil {
		return err
	}

	for i := range c.History {
		c.History[i].ComplaintID = c.ID
		if err := insertHistory(ctx, tx, &c.History[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *postgresRepository) GetComplaintByID(ctx context.Context, id int) (*Complaint, error) {
	var c Complaint
	err := r.db.GetContext(ctx, &c, "SELECT * FROM complaints WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.History, err = r.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) ListComplaints(ctx context.Context, filter Filter) ([]Complaint, error) {
	var list []Complaint
	query := "SELECT * FROM complaints WHERE 1=1"
	var args []interface{}
	argCount := 1

	if filter.StudentID != nil {
		query += fmt.Sprintf(" AND lower(student_id) = lower($%d)", argCount)
		args = append(args, *filter.StudentID)
		argCount++
	}
	if filter.AssignedToID != nil {
		query += fmt.Sprintf(" AND lower(assigned_to_id) = lower($%d)", argCount)
		args = append(args, *filter.AssignedToID)
		argCount++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filter.Status)
		argCount++
	}
	query += " ORDER BY id DESC"

	err := r.db.SelectContext(ctx, &list, query, args...)
	return list, err
}

func (r *postgresRepository) ListHistory(ctx context.Context, complaintID int) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM complaint_history WHERE complaint_id = $1 ORDER BY id", complaintID)
	return entries, err
}

func (r *postgresRepository) ApplyTransition(ctx context.Context, c *Complaint, entry HistoryEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Per-row lock keeps concurrent transitions on the same case serialized.
	var current int
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM complaints WHERE id = $1 FOR UPDATE", c.ID).Scan(&current); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE complaints SET
			status = $1,
			assigned_to_id = $2,
			feedback = $3
		WHERE id = $4`,
		c.Status, c.AssignedToID, c.Feedback, c.ID)
	if err != nil {
		return err
	}

	if err := insertHistory(ctx, tx, &entry); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) ListAwaitingStudentSince(ctx context.Context, cutoff time.Time) ([]Complaint, error) {
	var list []Complaint
	err := r.db.SelectContext(ctx, &list, `
		SELECT c.* FROM complaints c
		WHERE c.status = $1
		  AND (SELECT MAX(h.date) FROM complaint_history h WHERE h.complaint_id = c.id) < $2
		ORDER BY c.id`,
		StatusAwaitingStudent, cutoff)
	return list, err
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, entry *HistoryEntry) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO complaint_history (complaint_id, date, action, actor)
		VALUES (:complaint_id, :date, :action, :actor)`, entry)
	return err
}
