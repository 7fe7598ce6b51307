package students

import "strings"

// FilterOptions narrows a roster. Empty fields match everything.
type FilterOptions struct {
	Classes   []string
	Levels    []string
	FreeWords string
}

func (o FilterOptions) IsZero() bool {
	return len(o.Classes) == 0 && len(o.Levels) == 0 && strings.TrimSpace(o.FreeWords) == ""
}

func equalsAny(v string, candidates []string) bool {
	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c), v) {
			return true
		}
	}
	return false
}

// Filter keeps the students matching opt, in input order.
func Filter(list []Student, opt FilterOptions) []Student {
	if opt.IsZero() {
		return list
	}
	kw := strings.Fields(strings.ToLower(opt.FreeWords))

	out := []Student{}
	for _, s := range list {
		if len(opt.Classes) > 0 && !equalsAny(s.ClassName, opt.Classes) {
			continue
		}
		if len(opt.Levels) > 0 && !equalsAny(s.Level, opt.Levels) {
			continue
		}
		if len(kw) > 0 {
			name := strings.ToLower(s.FullName)
			ok := true
			for _, k := range kw {
				if !strings.Contains(name, k) && !strings.Contains(strings.ToLower(s.IDNumber), k) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
