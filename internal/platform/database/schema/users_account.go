// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table and column the repositories touch.

Queries are assembled from these definitions so a renamed column is a compile
error rather than a runtime SQL failure.
*/
package schema

import "strings"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Pseudo    string
	Email     string
	Password  string
	Role      string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Pseudo:    "pseudo",
	Email:     "email",
	Password:  "passwordhash",
	Role:      "role",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Pseudo, t.Email, t.Password, t.Role, t.CreatedAt, t.UpdatedAt}
}

// Select renders the column list for a SELECT or RETURNING clause.
func Select(columns []string) string {
	return strings.Join(columns, ", ")
}
