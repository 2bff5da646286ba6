package query

import "strings"

// SortField names a view field and its direction.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses a comma-separated sort expression such as "name,-created_at".
// A leading "-" sorts descending. Empty segments are skipped.
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			fields = append(fields, SortField{Field: part[1:], Descending: true})
			continue
		}
		fields = append(fields, SortField{Field: part})
	}
	return fields
}
