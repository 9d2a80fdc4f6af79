// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/cursus/internal/learning/course"
	"github.com/taibuivan/cursus/internal/platform/apperr"
)

// memoryRepository is an in-memory [course.Repository].
type memoryRepository struct {
	mu      sync.Mutex
	courses map[string]*course.Course
	tick    time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		courses: make(map[string]*course.Course),
		tick:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (repository *memoryRepository) List(_ context.Context, filter course.Filter, limit, offset int) ([]*course.Course, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	visible := []*course.Course{}
	for _, item := range repository.courses {
		if filter.AllCourses || item.IsPublic || item.OwnerID == filter.OwnerID {
			copied := *item
			visible = append(visible, &copied)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].CreatedAt.After(visible[j].CreatedAt) })

	total := len(visible)
	if offset >= total {
		return []*course.Course{}, total, nil
	}
	return visible[offset:min(offset+limit, total)], total, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*course.Course, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	item, ok := repository.courses[id]
	if !ok {
		return nil, apperr.NotFound("Course")
	}
	copied := *item
	return &copied, nil
}

func (repository *memoryRepository) Create(_ context.Context, item *course.Course) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	for _, existing := range repository.courses {
		if existing.Slug == item.Slug {
			return apperr.Conflict("Course already exists")
		}
	}
	repository.tick = repository.tick.Add(time.Second)
	item.CreatedAt, item.UpdatedAt = repository.tick, repository.tick
	copied := *item
	repository.courses[item.ID] = &copied
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, item *course.Course) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.courses[item.ID]; !ok {
		return apperr.NotFound("Course")
	}
	copied := *item
	repository.courses[item.ID] = &copied
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.courses[id]; !ok {
		return apperr.NotFound("Course")
	}
	delete(repository.courses, id)
	return nil
}
