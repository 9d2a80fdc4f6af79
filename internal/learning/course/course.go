// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package course manages the courses authored by teachers and conceptors.

# Access

  - Reading requires authentication. Private courses are visible to their
    owner and to admins only.
  - Creating and editing requires Teacher or Conceptor (or Admin). Non-admins
    may only edit courses they own.
  - Deleting requires Admin.
*/
package course

import (
	"context"
	"time"

	"github.com/taibuivan/cursus/internal/users/auth"
)

// # Domain Entities

// Course is a unit of learning material.
type Course struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows a course listing.
type Filter struct {
	// AllCourses includes private courses of every owner (admin view).
	AllCourses bool

	// OwnerID adds the private courses of this owner to the public ones.
	OwnerID string
}

// # Repository Contracts

// Repository defines the persistence contract for courses.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Course, int, error)
	FindByID(context context.Context, id string) (*Course, error)
	Create(context context.Context, course *Course) error
	Update(context context.Context, course *Course) error
	Delete(context context.Context, id string) error
}

// UserLookup resolves the token subject to an account.
type UserLookup interface {
	FindByEmail(context context.Context, email string) (*auth.User, error)
}

// # Field Identifiers

const (
	FieldID          = "id"
	FieldSlug        = "slug"
	FieldTitle       = "title"
	FieldDescription = "description"
)
