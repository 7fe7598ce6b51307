package students

import "strings"

// Student is one roster line. All fields are non-empty once parsed.
type Student struct {
	FullName  string `json:"full_name"`
	ClassName string `json:"class_name"`
	IDNumber  string `json:"id_number"`
	Level     string `json:"level"`
	PhotoPath string `json:"photo_path"`
}

// Valid reports whether every field holds something besides whitespace.
func (s Student) Valid() bool {
	for _, f := range []string{s.FullName, s.ClassName, s.IDNumber, s.Level, s.PhotoPath} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// fieldCount is the number of leading columns a roster line must carry.
const fieldCount = 5

// ParseStats describes what a loader did with its input.
type ParseStats struct {
	Lines    int   `json:"lines"`
	Accepted int   `json:"accepted"`
	Skipped  []int `json:"skipped"` // 1-based line (or row) numbers
}
