package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learnwords/catalog"
	"learnwords/logger"
	"learnwords/models"
)

// UserStore is durable per-user storage of profile fields and reading progress
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// MarkWordRead adds word to the user's entry for day, creating the entry
	// if needed, and sets Completed once at least required words are read.
	MarkWordRead(ctx context.Context, userID string, day int, word string, required int) (*models.MarkResult, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
}

// EventPublisher receives progress events after successful marks
type EventPublisher interface {
	Publish(event models.ProgressEvent)
}

// ProgressService records mark-as-read events and serves derived views
type ProgressService struct {
	store   UserStore
	catalog *catalog.Catalog
	events  EventPublisher
}

// NewProgressService wires the store and catalog together. events may be nil.
func NewProgressService(store UserStore, c *catalog.Catalog, events EventPublisher) *ProgressService {
	return &ProgressService{store: store, catalog: c, events: events}
}

// RecordWordRead marks word as read for day. Days missing from the catalog are
// accepted and count as complete immediately, since their threshold is zero.
func (s *ProgressService) RecordWordRead(ctx context.Context, userID string, day int, word string) (*models.DayProgress, error) {
	if day <= 0 || strings.TrimSpace(word) == "" {
		return nil, fmt.Errorf("day and word are required: %w", models.ErrValidation)
	}

	required := s.catalog.WordCount(day)
	if _, ok := s.catalog.Words(day); !ok {
		logger.Warn("mark for day missing from catalog", "user", userID, "day", day)
	}

	result, err := s.store.MarkWordRead(ctx, userID, day, word, required)
	if err != nil {
		return nil, err
	}

	logger.Debug("word marked", "user", userID, "day", day, "added", result.Added, "completed", result.Progress.Completed)
	s.publish(userID, word, result)

	progress := result.Progress
	return &progress, nil
}

func (s *ProgressService) publish(userID, word string, result *models.MarkResult) {
	if s.events == nil || !result.Added {
		return
	}
	now := time.Now()
	event := models.ProgressEvent{
		Type:      models.EventWordMarked,
		UserID:    userID,
		Day:       result.Progress.Day,
		Word:      word,
		WordsRead: len(result.Progress.WordsRead),
		Completed: result.Progress.Completed,
		Timestamp: now,
	}
	s.events.Publish(event)

	if result.NewlyCompleted {
		event.Type = models.EventDayCompleted
		event.Word = ""
		s.events.Publish(event)
	}
}

func (s *ProgressService) Dashboard(ctx context.Context, userID string) (DashboardDTO, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return DashboardDTO{}, err
	}
	return DashboardView(user), nil
}

func (s *ProgressService) Profile(ctx context.Context, userID string) (ProfileDTO, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return ProfileDTO{}, err
	}
	return ProfileView(user), nil
}

// UpdateProfile applies the non-empty fields of update. An empty update still
// fails with ErrUserNotFound for an unknown user.
func (s *ProgressService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	update.Name = strings.TrimSpace(update.Name)
	update.ProfilePic = strings.TrimSpace(update.ProfilePic)
	return s.store.UpdateProfile(ctx, userID, update)
}

func (s *ProgressService) Courses() []catalog.Day {
	return CourseListView(s.catalog)
}

func (s *ProgressService) CourseWords(day int) ([]catalog.WordEntry, error) {
	return CourseDetailView(s.catalog, day)
}
