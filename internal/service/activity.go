package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/forgo/mergington/api/internal/database"
	"github.com/forgo/mergington/api/internal/metrics"
	"github.com/forgo/mergington/api/internal/model"
	"github.com/forgo/mergington/api/internal/repository"
)

// ActivityRepository defines the interface for activity storage.
// AddParticipant and RemoveParticipant must check and mutate atomically.
type ActivityRepository interface {
	List(ctx context.Context) ([]*model.Activity, error)
	GetByName(ctx context.Context, name string) (*model.Activity, error)
	AddParticipant(ctx context.Context, name, email string) error
	RemoveParticipant(ctx context.Context, name, email string) error
	Seed(ctx context.Context, activities []*model.Activity) error
	Ping(ctx context.Context) error
}

// RosterRecorder receives one call per signup or unregister attempt
type RosterRecorder interface {
	Signup(activity, result string)
	Unregister(activity, result string)
}

// ActivityService handles activity roster business logic
type ActivityService struct {
	repo     ActivityRepository
	recorder RosterRecorder
}

// ActivityServiceConfig holds configuration for the activity service
type ActivityServiceConfig struct {
	Repo ActivityRepository
	// Recorder defaults to the Prometheus collectors
	Recorder RosterRecorder
}

// NewActivityService creates a new activity service
func NewActivityService(cfg ActivityServiceConfig) *ActivityService {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = metrics.Recorder{}
	}
	return &ActivityService{
		repo:     cfg.Repo,
		recorder: recorder,
	}
}

// ListActivities returns the full registry keyed by activity name
func (s *ActivityService) ListActivities(ctx context.Context) (model.Registry, error) {
	activities, err := s.repo.List(ctx)
	if err != nil {
		slog.Error("failed to list activities", slog.String("error", err.Error()))
		return nil, err
	}
	return model.NewRegistry(activities), nil
}

// GetActivity retrieves a single activity by name
func (s *ActivityService) GetActivity(ctx context.Context, name string) (*model.Activity, error) {
	activity, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// Signup appends email to the activity's roster
func (s *ActivityService) Signup(ctx context.Context, activity, email string) error {
	if strings.TrimSpace(email) == "" {
		s.recorder.Signup(metrics.UnknownActivity, metrics.ResultInvalid)
		return ErrEmailRequired
	}

	err := s.repo.AddParticipant(ctx, activity, email)
	switch {
	case err == nil:
		s.recorder.Signup(activity, metrics.ResultOK)
		slog.Info("student signed up",
			slog.String("activity", activity),
			slog.String("email", email))
		return nil
	case errors.Is(err, database.ErrNotFound):
		s.recorder.Signup(metrics.UnknownActivity, metrics.ResultNotFound)
		return ErrActivityNotFound
	case errors.Is(err, database.ErrDuplicate):
		s.recorder.Signup(activity, metrics.ResultConflict)
		return ErrAlreadySignedUp
	default:
		s.recorder.Signup(metrics.UnknownActivity, metrics.ResultStoreError)
		slog.Error("failed to add participant",
			slog.String("activity", activity),
			slog.String("error", err.Error()))
		return err
	}
}

// Unregister removes email from the activity's roster
func (s *ActivityService) Unregister(ctx context.Context, activity, email string) error {
	if strings.TrimSpace(email) == "" {
		s.recorder.Unregister(metrics.UnknownActivity, metrics.ResultInvalid)
		return ErrEmailRequired
	}

	err := s.repo.RemoveParticipant(ctx, activity, email)
	switch {
	case err == nil:
		s.recorder.Unregister(activity, metrics.ResultOK)
		slog.Info("student unregistered",
			slog.String("activity", activity),
			slog.String("email", email))
		return nil
	case errors.Is(err, database.ErrNotFound):
		s.recorder.Unregister(metrics.UnknownActivity, metrics.ResultNotFound)
		return ErrActivityNotFound
	case errors.Is(err, repository.ErrParticipantNotFound):
		s.recorder.Unregister(activity, metrics.ResultConflict)
		return ErrNotRegistered
	default:
		s.recorder.Unregister(metrics.UnknownActivity, metrics.ResultStoreError)
		slog.Error("failed to remove participant",
			slog.String("activity", activity),
			slog.String("error", err.Error()))
		return err
	}
}

// Ping reports whether the backing store is reachable
func (s *ActivityService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
