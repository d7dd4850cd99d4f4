package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/mergington/api/internal/database"
	"github.com/forgo/mergington/api/internal/model"
)

// activityStore is the surface every backend shares
type activityStore interface {
	List(ctx context.Context) ([]*model.Activity, error)
	GetByName(ctx context.Context, name string) (*model.Activity, error)
	AddParticipant(ctx context.Context, name, email string) error
	RemoveParticipant(ctx context.Context, name, email string) error
	Seed(ctx context.Context, activities []*model.Activity) error
	Ping(ctx context.Context) error
}

func testRoster() []*model.Activity {
	return []*model.Activity{
		{
			Name:            "Math Club",
			Description:     "Solve challenging problems",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
		},
		{
			Name:            "Chess Club",
			Description:     "Learn strategies",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu"},
		},
	}
}

// runStoreContract exercises the shared repository contract against a
// freshly constructed, empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) activityStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("seed and list", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))

		activities, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, "Chess Club", activities[0].Name)
		assert.Equal(t, "Math Club", activities[1].Name)
		assert.Equal(t, 10, activities[1].MaxParticipants)
		assert.Equal(t, []string{"james@mergington.edu", "benjamin@mergington.edu"}, activities[1].Participants)
	})

	t.Run("seed keeps existing rosters", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))
		require.NoError(t, store.AddParticipant(ctx, "Chess Club", "new@mergington.edu"))
		require.NoError(t, store.Seed(ctx, testRoster()))

		a, err := store.GetByName(ctx, "Chess Club")
		require.NoError(t, err)
		assert.Equal(t, []string{"michael@mergington.edu", "new@mergington.edu"}, a.Participants)
	})

	t.Run("get unknown returns nil", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))

		a, err := store.GetByName(ctx, "Underwater Basket Weaving")
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("add appends in order", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))

		require.NoError(t, store.AddParticipant(ctx, "Math Club", "a@mergington.edu"))
		require.NoError(t, store.AddParticipant(ctx, "Math Club", "b@mergington.edu"))

		a, err := store.GetByName(ctx, "Math Club")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"james@mergington.edu", "benjamin@mergington.edu",
			"a@mergington.edu", "b@mergington.edu",
		}, a.Participants)
	})

	t.Run("add duplicate", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))

		err := store.AddParticipant(ctx, "Math Club", "james@mergington.edu")
		assert.True(t, errors.Is(err, database.ErrDuplicate), "got %v", err)

		a, err := store.GetByName(ctx, "Math Club")
		require.NoError(t, err)
		assert.Len(t, a.Participants, 2)
	})

	t.Run("add to unknown activity", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))

		err := store.AddParticipant(ctx, "Nope", "x@mergington.edu")
		assert.True(t, errors.Is(err, database.ErrNotFound), "got %v", err)
	})

	t.Run("remove keeps order of the rest", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))
		require.NoError(t, store.AddParticipant(ctx, "Math Club", "c@mergington.edu"))

		require.NoError(t, store.RemoveParticipant(ctx, "Math Club", "benjamin@mergington.edu"))

		a, err := store.GetByName(ctx, "Math Club")
		require.NoError(t, err)
		assert.Equal(t, []string{"james@mergington.edu", "c@mergington.edu"}, a.Participants)
	})

	t.Run("remove not registered", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))

		err := store.RemoveParticipant(ctx, "Math Club", "not.registered@mergington.edu")
		assert.True(t, errors.Is(err, ErrParticipantNotFound), "got %v", err)
	})

	t.Run("remove from unknown activity", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))

		err := store.RemoveParticipant(ctx, "Nope", "x@mergington.edu")
		assert.True(t, errors.Is(err, database.ErrNotFound), "got %v", err)
	})

	t.Run("concurrent signups of one email admit exactly one", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))

		const workers = 16
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := store.AddParticipant(ctx, "Chess Club", "race@mergington.edu"); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		a, err := store.GetByName(ctx, "Chess Club")
		require.NoError(t, err)
		count := 0
		for _, p := range a.Participants {
			if p == "race@mergington.edu" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("concurrent distinct signups all land", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Seed(ctx, testRoster()))

		const workers = 8
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, store.AddParticipant(ctx, "Chess Club", fmt.Sprintf("s%d@mergington.edu", i)))
			}(i)
		}
		wg.Wait()

		a, err := store.GetByName(ctx, "Chess Club")
		require.NoError(t, err)
		assert.Len(t, a.Participants, 1+workers)
	})

	t.Run("ping", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.Ping(ctx))
	})
}
