// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LearningCourseTable represents the 'learning.course' table
type LearningCourseTable struct {
	Table       string
	ID          string
	Slug        string
	Title       string
	Description string
	OwnerID     string
	IsPublic    string
	CreatedAt   string
	UpdatedAt   string
}

// LearningCourse is the schema definition for learning.course
var LearningCourse = LearningCourseTable{
	Table:       "learning.course",
	ID:          "id",
	Slug:        "slug",
	Title:       "title",
	Description: "description",
	OwnerID:     "ownerid",
	IsPublic:    "ispublic",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t LearningCourseTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Title, t.Description, t.OwnerID, t.IsPublic, t.CreatedAt, t.UpdatedAt}
}
