package batch

import "time"

// Batch is a cohort of students sharing a course type and date range.
type Batch struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	CourseType string    `db:"course_type" json:"course_type"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	CreatedBy  string    `db:"created_by" json:"created_by"`
}

// CourseTypes are the accepted course_type values.
var CourseTypes = []string{
	"Engineering",
	"Pharmacy",
	"Entrance",
	"XI Coaching",
	"XII Coaching",
}

// ValidCourseType reports whether s is one of the accepted course types.
func ValidCourseType(s string) bool {
	for _, ct := range CourseTypes {
		if ct == s {
			return true
		}
	}
	return false
}

// Input carries the mutable batch fields for create and update.
type Input struct {
	Name       string
	CourseType string
	StartDate  time.Time
	EndDate    time.Time
}
