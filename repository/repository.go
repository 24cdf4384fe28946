// Package repository provides the GORM-backed lookup implementations injected
// into the matching and aggregation services.
package repository

import (
	"fmt"
)

// cleanedPhone builds a SQL expression stripping the punctuation commonly
// found in stored phone numbers, leaving the bare digit sequence for suffix
// comparison. Plain REPLACE chains keep it portable between PostgreSQL and
// the SQLite test databases.
func cleanedPhone(column string) string {
	return fmt.Sprintf(
		"REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(%s, ' ', ''), '-', ''), '(', ''), ')', ''), '+', ''), '.', '')",
		column,
	)
}
