package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// RegisterRow is one complaint line in the exported register.
type RegisterRow struct {
	ID            int
	StudentID     string
	CourseCode    string
	CourseTitle   string
	Type          string
	Status        string
	AssignedTo    string
	DateSubmitted time.Time
}

var registerHeader = []string{
	"ID", "Student", "Course Code", "Course Title", "Category", "Status", "Assigned To", "Submitted",
}

// ComplaintsRegister builds the admin register workbook: styled header row,
// frozen pane and an auto filter over the data.
func ComplaintsRegister(rows []RegisterRow) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Complaints"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, title := range registerHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(registerHeader), 1)
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := []interface{}{
			row.ID,
			row.StudentID,
			row.CourseCode,
			row.CourseTitle,
			row.Type,
			row.Status,
			row.AssignedTo,
			row.DateSubmitted.Format("2006-01-02"),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}
	filterRange := fmt.Sprintf("A1:%s", lastCol)
	if err := f.AutoFilter(sheet, filterRange, nil); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
