package projection

import "strings"

// Escape quotes a free-text field for a comma separated line. A field holding
// a double quote has every quote doubled and is wrapped in quotes; a field
// holding a comma or a line break is wrapped without doubling; anything else
// is returned unchanged.
func Escape(field string) string {
	if strings.Contains(field, `"`) {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	if strings.ContainsAny(field, ",\r\n") {
		return `"` + field + `"`
	}
	return field
}
