package model

import (
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of task categories
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryExercise Category = "exercise"
	CategoryOther    Category = "other"
)

// DefaultCategory is used when a task is created without one
const DefaultCategory = CategoryWork

// Categories returns all categories in display order
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryExercise, CategoryOther}
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryExercise, CategoryOther:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Next returns the category after c, wrapping around
func (c Category) Next() Category {
	all := Categories()
	for i, cat := range all {
		if cat == c {
			return all[(i+1)%len(all)]
		}
	}
	return DefaultCategory
}

// ParseCategory parses a category name, case-insensitively
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q (want one of work, personal, exercise, other)", s)
	}
	return c, nil
}

// Task represents a todo item
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	DueDate   time.Time `json:"dueDate"`
	Category  Category  `json:"category"`
}

// IsOverdue returns true if the task is incomplete and strictly past its due date
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate.Before(now)
}

// IsDueOn returns true if the due date falls within the local calendar day of day
func (t *Task) IsDueOn(day time.Time) bool {
	start := StartOfDay(day)
	end := start.AddDate(0, 0, 1)
	return !t.DueDate.Before(start) && t.DueDate.Before(end)
}

// StartOfDay returns local midnight for the calendar day containing t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
