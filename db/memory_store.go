package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"learnwords/models"
)

// MemoryStore is a process-local Store for development and tests. Each
// operation runs under one lock, so it has no lost-update race.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*models.User)}
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("%s: %w", user.Email, models.ErrEmailTaken)
		}
	}
	prepareNewUser(user)
	s.users[user.ID.Hex()] = cloneUser(user)
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) MarkWordRead(_ context.Context, userID string, day int, word string, required int) (*models.MarkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
	}

	p := u.FindDay(day)
	if p == nil {
		u.Progress = append(u.Progress, models.NewDayProgress(day))
		p = &u.Progress[len(u.Progress)-1]
		u.UpdatedAt = time.Now().UTC()
	}
	wasCompleted := p.Completed
	added := p.MarkRead(word, required)

	return &models.MarkResult{
		Progress:       p.Clone(),
		Added:          added,
		NewlyCompleted: p.Completed && !wasCompleted,
	}, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, userID string, update models.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
	}
	if !update.IsEmpty() {
		update.Apply(u)
		u.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (s *MemoryStore) SetStreak(_ context.Context, userID string, streak int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
	}
	u.Streak = streak
	return nil
}

func (s *MemoryStore) AddBadge(_ context.Context, userID string, badge string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%s: %w", userID, models.ErrUserNotFound)
	}
	for _, b := range u.Badges {
		if b == badge {
			return nil
		}
	}
	u.Badges = append(u.Badges, badge)
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Progress = make([]models.DayProgress, len(u.Progress))
	for i, p := range u.Progress {
		c.Progress[i] = p.Clone()
	}
	c.Badges = append([]string{}, u.Badges...)
	return &c
}
