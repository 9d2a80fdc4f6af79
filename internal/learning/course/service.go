// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/pkg/pagination"
	"github.com/taibuivan/cursus/pkg/pointer"
	"github.com/taibuivan/cursus/pkg/slug"
	"github.com/taibuivan/cursus/pkg/uuid"
)

// Actor is the resolved caller of a course operation.
type Actor struct {
	UserID string
	Role   sec.RoleCode
}

// CanSeeAll reports whether the actor bypasses visibility and ownership.
func (actor Actor) CanSeeAll() bool {
	return actor.Role.IsAdmin()
}

// CreateInput holds a new course.
type CreateInput struct {
	Title       string
	Slug        string
	Description string
	IsPublic    bool
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Slug        *string
	Description *string
	IsPublic    *bool
}

// Service implements course use cases.
type Service struct {
	courseRepository Repository
	logger           *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{courseRepository: repository, logger: logger}
}

/*
List returns the courses visible to actor.

Returns:
  - []*Course: The page
  - pagination.Meta: Page metadata
  - error: Storage failures
*/
func (service *Service) List(context context.Context, actor Actor, params pagination.Params) ([]*Course, pagination.Meta, error) {
	filter := Filter{AllCourses: actor.CanSeeAll(), OwnerID: actor.UserID}

	courses, total, err := service.courseRepository.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("course_service_list_failed: %w", err)
	}
	return courses, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Get returns a course. A private course of another owner is reported as not
found.
*/
func (service *Service) Get(context context.Context, actor Actor, id string) (*Course, error) {
	course, err := service.courseRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("course_service_get_failed: %w", err)
	}
	if !course.IsPublic && course.OwnerID != actor.UserID && !actor.CanSeeAll() {
		return nil, apperr.NotFound("Course")
	}
	return course, nil
}

/*
Create persists a new course owned by actor. The slug defaults to one derived
from the title.
*/
func (service *Service) Create(context context.Context, actor Actor, input CreateInput) (*Course, error) {
	courseSlug, err := resolveSlug(input.Slug, input.Title)
	if err != nil {
		return nil, err
	}

	course := &Course{
		ID:          uuid.New(),
		Slug:        courseSlug,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		OwnerID:     actor.UserID,
		IsPublic:    input.IsPublic,
	}
	if err := service.courseRepository.Create(context, course); err != nil {
		return nil, fmt.Errorf("course_service_create_failed: %w", err)
	}

	service.logger.Info("course_created",
		slog.String("course_id", course.ID),
		slog.String("owner_id", course.OwnerID),
	)
	return course, nil
}

/*
Update applies a partial update. Non-admins may only edit courses they own.
*/
func (service *Service) Update(context context.Context, actor Actor, id string, input UpdateInput) (*Course, error) {
	course, err := service.courseRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("course_service_update_lookup_failed: %w", err)
	}

	if course.OwnerID != actor.UserID && !actor.CanSeeAll() {
		return nil, apperr.Forbidden("You can only edit your own courses")
	}

	// Apply delta updates
	if input.Title != nil {
		course.Title = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		courseSlug, err := resolveSlug(*input.Slug, course.Title)
		if err != nil {
			return nil, err
		}
		course.Slug = courseSlug
	}
	course.Description = pointer.Or(input.Description, course.Description)
	course.IsPublic = pointer.Or(input.IsPublic, course.IsPublic)

	if err := service.courseRepository.Update(context, course); err != nil {
		return nil, fmt.Errorf("course_service_update_failed: %w", err)
	}

	service.logger.Info("course_updated", slog.String("course_id", course.ID))
	return course, nil
}

/*
Delete removes a course.
*/
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.courseRepository.Delete(context, id); err != nil {
		return fmt.Errorf("course_service_delete_failed: %w", err)
	}
	service.logger.Info("course_deleted", slog.String("course_id", id))
	return nil
}

// resolveSlug normalizes an explicit slug, or derives one from title.
func resolveSlug(explicit, title string) (string, error) {
	source := explicit
	if strings.TrimSpace(source) == "" {
		source = title
	}

	result := slug.From(source)
	if result == "" {
		return "", apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldSlug,
			Message: "Cannot derive a slug from this value",
		})
	}
	return result, nil
}
