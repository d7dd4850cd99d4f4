package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/forgo/mergington/api/internal/model"
	"github.com/forgo/mergington/api/internal/seed"
)

// SeederService loads the starting roster into a store at boot
type SeederService struct {
	repo ActivityRepository
}

// NewSeederService creates a new seeder service
func NewSeederService(repo ActivityRepository) *SeederService {
	return &SeederService{repo: repo}
}

// SeedRosterRequest configures roster seeding
type SeedRosterRequest struct {
	// File is a JSON roster; empty means the built-in roster
	File string `json:"file,omitempty"`
}

// SeedResult contains the results of a seeding operation
type SeedResult struct {
	Created  int      `json:"created"`
	Names    []string `json:"names"`
	Duration int64    `json:"duration_ms"`
}

// SeedRoster inserts every activity of the roster the store doesn't have yet.
// Existing activities keep their current participants.
func (s *SeederService) SeedRoster(ctx context.Context, req SeedRosterRequest) (*SeedResult, error) {
	start := time.Now()

	var (
		activities []*model.Activity
		err        error
	)
	if req.File != "" {
		activities, err = seed.LoadFile(req.File)
		if err != nil {
			return nil, err
		}
	} else {
		activities = seed.Default()
	}
	if len(activities) == 0 {
		return nil, ErrSeedRosterEmpty
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read current roster: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, a := range existing {
		present[a.Name] = true
	}

	if err := s.repo.Seed(ctx, activities); err != nil {
		return nil, fmt.Errorf("failed to seed roster: %w", err)
	}

	names := make([]string, 0, len(activities))
	for _, a := range activities {
		if !present[a.Name] {
			names = append(names, a.Name)
		}
	}

	result := &SeedResult{
		Created:  len(names),
		Names:    names,
		Duration: time.Since(start).Milliseconds(),
	}
	slog.Info("roster seeded",
		slog.Int("created", result.Created),
		slog.Int("total", len(activities)),
		slog.String("source", sourceName(req.File)))
	return result, nil
}

func sourceName(file string) string {
	if file == "" {
		return "built-in"
	}
	return file
}
