// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cursus/internal/platform/database/schema"
)

/*
TestColumns verifies the column lists used to build SELECT clauses.
*/
func TestColumns(t *testing.T) {
	assert.Equal(t,
		"id, pseudo, email, passwordhash, role, createdat, updatedat",
		schema.Select(schema.UserAccount.Columns()),
	)
	assert.Len(t, schema.LearningCourse.Columns(), 8)
	assert.Equal(t, "learning.course", schema.LearningCourse.Table)
}
