// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SystemInfoTable represents the single-row 'system.info' table
type SystemInfoTable struct {
	Table         string
	ID            string
	CGU           string
	LegalMentions string
	UpdatedAt     string
}

var SystemInfo = SystemInfoTable{
	Table:         "system.info",
	ID:            "id",
	CGU:           "cgu",
	LegalMentions: "legalmentions",
	UpdatedAt:     "updatedat",
}
