package student

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ContactInfo holds the student's and guardian's contact details. It is
// stored as a single JSONB column.
type ContactInfo struct {
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ParentName  string `json:"parent_name"`
	ParentPhone string `json:"parent_phone"`
}

// Value implements driver.Valuer for JSONB storage.
func (ci ContactInfo) Value() (driver.Value, error) {
	return json.Marshal(ci)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (ci *ContactInfo) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ci = ContactInfo{}
		return nil
	case []byte:
		return json.Unmarshal(v, ci)
	case string:
		return json.Unmarshal([]byte(v), ci)
	default:
		return fmt.Errorf("unsupported contact_info type %T", src)
	}
}

// Student is one enrolled student within a batch.
type Student struct {
	ID          string      `db:"id" json:"id"`
	BatchID     string      `db:"batch_id" json:"batch_id"`
	FullName    string      `db:"full_name" json:"full_name"`
	RollNumber  string      `db:"roll_number" json:"roll_number"`
	Grade       string      `db:"grade" json:"grade"`
	ContactInfo ContactInfo `db:"contact_info" json:"contact_info"`
}

// Input carries the mutable student fields for create and update.
type Input struct {
	FullName    string
	RollNumber  string
	Grade       string
	ContactInfo ContactInfo
}

// Filter returns the students whose name or roll number contains q,
// case-insensitively. An empty q returns the roster unchanged. The match
// runs against the already-fetched roster; no extra query is issued.
func Filter(students []Student, q string) []Student {
	if q == "" {
		return students
	}
	q = strings.ToLower(q)
	var out []Student
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.FullName), q) ||
			strings.Contains(strings.ToLower(s.RollNumber), q) {
			out = append(out, s)
		}
	}
	return out
}
