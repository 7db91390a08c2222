package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CaseFile is the printable view of one complaint.
type CaseFile struct {
	ID            int
	StudentID     string
	CourseCode    string
	CourseTitle   string
	LecturerName  string
	Department    string
	Type          string
	Description   string
	Status        string
	Feedback      string
	DateSubmitted time.Time
	Timeline      []TimelineEntry
}

// TimelineEntry is one audit line in the printed history timeline.
type TimelineEntry struct {
	Date   time.Time
	Action string
	By     string
}

// CaseFilePDF renders the case file as an A4 PDF: a detail block followed by
// the chronological history timeline.
func CaseFilePDF(doc CaseFile) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Complaint Case File #%d", doc.ID), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	details := []struct{ label, value string }{
		{"Student", doc.StudentID},
		{"Course", fmt.Sprintf("%s - %s", doc.CourseCode, doc.CourseTitle)},
		{"Lecturer (named)", doc.LecturerName},
		{"Department", doc.Department},
		{"Category", doc.Type},
		{"Submitted", doc.DateSubmitted.Format("2006-01-02")},
		{"Status", doc.Status},
	}
	for _, d := range details {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 7, d.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 7, d.value, "", "L", false)
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, "Description", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, doc.Description, "", "L", false)

	if doc.Feedback != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Latest Feedback", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, doc.Feedback, "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "History", "", 1, "L", false, 0, "")
	pdf.SetDrawColor(68, 114, 196)
	for _, entry := range doc.Timeline {
		pdf.SetFont("Arial", "B", 9)
		stamp := entry.Date.Format("2006-01-02 15:04")
		if entry.By != "" {
			stamp += "  -  " + entry.By
		}
		pdf.CellFormat(0, 6, stamp, "B", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, entry.Action, "", "L", false)
		pdf.Ln(1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
