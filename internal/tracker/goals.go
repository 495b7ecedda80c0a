package tracker

import (
	"fmt"
	"strings"

	"github.com/dori/taskdeck/internal/model"
)

// GoalStore owns the goal collection in insertion order
type GoalStore struct {
	opts  options
	goals []model.Goal
}

// NewGoalStore creates an empty goal store
func NewGoalStore(opts ...Option) *GoalStore {
	return &GoalStore{opts: newOptions(opts)}
}

// Load replaces the collection with the snapshot stored under KeyGoals.
// Absent or corrupt snapshots leave the store empty.
func (s *GoalStore) Load(g Getter) {
	s.goals = nil

	blob, ok := loadBlob(g, KeyGoals, s.opts.logger)
	if !ok {
		return
	}
	goals, err := DecodeGoals(blob)
	if err != nil {
		s.opts.logger.Warn("discarding stored goals", "error", err)
		return
	}
	s.goals = goals
	s.opts.logger.Debug("loaded goals", "count", len(goals))
}

// Create adds a goal with the default target
func (s *GoalStore) Create(name string) (model.Goal, error) {
	return s.CreateWithTarget(name, model.DefaultGoalTarget)
}

// CreateWithTarget adds a goal with an explicit positive target
func (s *GoalStore) CreateWithTarget(name string, target int) (model.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Goal{}, fmt.Errorf("%w: goal name is empty", ErrValidationRejected)
	}
	if target <= 0 {
		return model.Goal{}, fmt.Errorf("%w: goal target must be positive, got %d", ErrValidationRejected, target)
	}

	goal := model.Goal{
		ID:     s.opts.newID(),
		Name:   name,
		Target: target,
	}
	s.goals = append(s.goals, goal)
	s.persist()
	return goal, nil
}

// Delete removes id from the collection
func (s *GoalStore) Delete(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.goals = append(s.goals[:i:i], s.goals[i+1:]...)
	s.persist()
	return true
}

// AdjustProgress sets the counter of id to newCurrent clamped to [0, target].
// Direction is the caller's concern.
func (s *GoalStore) AdjustProgress(id string, newCurrent int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	g := &s.goals[i]
	g.Current = g.Clamp(newCurrent)
	s.persist()
	return true
}

// Increment adds one to the counter of id
func (s *GoalStore) Increment(id string) bool {
	g, ok := s.Get(id)
	if !ok {
		return false
	}
	return s.AdjustProgress(id, g.Current+1)
}

// Decrement subtracts one from the counter of id
func (s *GoalStore) Decrement(id string) bool {
	g, ok := s.Get(id)
	if !ok {
		return false
	}
	return s.AdjustProgress(id, g.Current-1)
}

// Goals returns a copy of the collection
func (s *GoalStore) Goals() []model.Goal {
	out := make([]model.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Get returns the goal with id
func (s *GoalStore) Get(id string) (model.Goal, bool) {
	if i := s.index(id); i >= 0 {
		return s.goals[i], true
	}
	return model.Goal{}, false
}

// FindByPrefix resolves a unique id prefix
func (s *GoalStore) FindByPrefix(prefix string) (model.Goal, error) {
	ids := make([]string, len(s.goals))
	for i, g := range s.goals {
		ids[i] = g.ID
	}
	i, err := matchPrefix(ids, prefix)
	if err != nil {
		return model.Goal{}, err
	}
	return s.goals[i], nil
}

func (s *GoalStore) index(id string) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *GoalStore) persist() {
	blob, err := EncodeGoals(s.goals)
	if err != nil {
		s.opts.logger.Error("failed to snapshot goals", "error", err)
		return
	}
	s.opts.persister.Persist(KeyGoals, blob)
}
