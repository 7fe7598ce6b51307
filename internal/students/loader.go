package students

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrRosterNotFound is returned (wrapped) when the roster file does not exist.
var ErrRosterNotFound = errors.New("roster not found")

func fromParts(parts []string) (Student, bool) {
	if len(parts) < fieldCount {
		return Student{}, false
	}
	for i := 0; i < fieldCount; i++ {
		parts[i] = strings.TrimSpace(parts[i])
	}
	s := Student{
		FullName:  parts[0],
		ClassName: parts[1],
		IDNumber:  parts[2],
		Level:     parts[3],
		PhotoPath: parts[4],
	}
	return s, s.Valid()
}

// Parse reads comma separated roster lines:
//
//	FullName, ClassName, IDNumber, Level, PhotoPath
//
// Blank lines are ignored. Lines with fewer than five fields, or with an
// empty value in one of them, are dropped and reported in ParseStats.Skipped.
// Commas cannot be escaped.
func Parse(r io.Reader) ([]Student, ParseStats, error) {
	var stats ParseStats
	out := []Student{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if n == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Lines++
		s, ok := fromParts(strings.Split(line, ","))
		if !ok {
			stats.Skipped = append(stats.Skipped, n)
			continue
		}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return out, stats, fmt.Errorf("reading roster: %w", err)
	}
	stats.Accepted = len(out)
	return out, stats, nil
}

// LoadText parses the roster text file at path. A missing file is not
// fatal here: it yields an empty slice and an error wrapping
// ErrRosterNotFound, and the caller decides.
func LoadText(path string) ([]Student, ParseStats, error) {
	fp, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Student{}, ParseStats{}, fmt.Errorf("%w: %s", ErrRosterNotFound, path)
		}
		return []Student{}, ParseStats{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer fp.Close()

	list, stats, err := Parse(fp)
	if err != nil {
		return list, stats, fmt.Errorf("loading %s: %w", path, err)
	}
	return list, stats, nil
}

// LoadXLSX reads the first sheet of a workbook. Row 1 is a header; each
// following row uses the same five leading columns as the text format.
func LoadXLSX(path string) ([]Student, ParseStats, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return []Student{}, ParseStats{}, fmt.Errorf("%w: %s", ErrRosterNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return []Student{}, ParseStats{}, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()
	return parseWorkbook(f)
}

// ReadXLSX is LoadXLSX for an already open stream, e.g. an upload.
func ReadXLSX(r io.Reader) ([]Student, ParseStats, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return []Student{}, ParseStats{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return parseWorkbook(f)
}

func parseWorkbook(f *excelize.File) ([]Student, ParseStats, error) {
	var stats ParseStats
	out := []Student{}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return out, stats, errors.New("workbook does not contain any sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return out, stats, fmt.Errorf("reading rows from sheet %s: %w", sheet, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if isBlankRow(row) {
			continue
		}
		stats.Lines++
		s, ok := fromParts(append([]string(nil), row...))
		if !ok {
			stats.Skipped = append(stats.Skipped, i+1)
			continue
		}
		out = append(out, s)
	}
	stats.Accepted = len(out)
	return out, stats, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Load picks the loader from the file extension.
func Load(path string) ([]Student, ParseStats, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path)
	}
	return LoadText(path)
}
