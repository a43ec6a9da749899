package aal

import (
	"fmt"
	"strings"
)

func formatCodeFrame(stmt string, pos Position) string {
	stmt = strings.TrimRight(stmt, " \t")
	if strings.TrimSpace(stmt) == "" {
		return ""
	}

	runes := []rune(stmt)
	column := pos.Column
	if column <= 0 {
		return fmt.Sprintf("  --> %s", strings.TrimSpace(stmt))
	}
	if column > len(runes)+1 {
		column = len(runes) + 1
	}

	caretPad := strings.Repeat(" ", column-1)
	return fmt.Sprintf(
		"  --> column %d\n   | %s\n   | %s^",
		column,
		stmt,
		caretPad,
	)
}
