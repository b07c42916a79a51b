package typegen

import "strings"

// Emit joins the header and declarations into one module: header, blank line,
// declarations separated by exactly one blank line, single trailing newline.
// Callers pass records and enums already in emission order.
func Emit(header string, records, enums []string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimRight(header, "\n"))
	sb.WriteString("\n")

	for _, block := range [][]string{records, enums} {
		for _, decl := range block {
			sb.WriteString("\n")
			sb.WriteString(strings.TrimRight(decl, "\n"))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
