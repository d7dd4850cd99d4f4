package seed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ContainsKnownActivities(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, a := range Default() {
		names[a.Name] = true
		assert.NotEmpty(t, a.Participants, "%s should start with participants", a.Name)
	}

	for _, want := range []string{"Chess Club", "Programming Class", "Math Club"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestDefault_ReturnsFreshCopies(t *testing.T) {
	t.Parallel()

	first := Default()
	first[0].Participants = append(first[0].Participants, "mutated@mergington.edu")

	second := Default()
	assert.NotContains(t, second[0].Participants, "mutated@mergington.edu")
}

func TestDefault_NoDuplicateParticipants(t *testing.T) {
	t.Parallel()

	for _, a := range Default() {
		seen := make(map[string]bool)
		for _, p := range a.Participants {
			assert.False(t, seen[p], "%s lists %s twice", a.Name, p)
			seen[p] = true
		}
	}
}

func TestLoadFile_Valid(t *testing.T) {
	t.Parallel()

	activities, err := LoadFile("testdata/roster.json")
	require.NoError(t, err)
	require.Len(t, activities, 2)

	// sorted by name
	assert.Equal(t, "Chess Club", activities[0].Name)
	assert.Equal(t, "Robotics Club", activities[1].Name)
	assert.Equal(t, 8, activities[1].MaxParticipants)
	assert.Equal(t, []string{"ada@mergington.edu"}, activities[1].Participants)
	assert.NotNil(t, activities[0].Participants)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile("testdata/does-not-exist.json")
	require.Error(t, err)
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"empty object", `{}`},
		{"missing schedule", `{"A": {"description": "d", "max_participants": 1, "participants": []}}`},
		{"negative capacity", `{"A": {"description": "d", "schedule": "s", "max_participants": -1, "participants": []}}`},
		{"duplicate participant", `{"A": {"description": "d", "schedule": "s", "max_participants": 5, "participants": ["x@m.edu", "x@m.edu"]}}`},
		{"unknown field", `{"A": {"description": "d", "schedule": "s", "max_participants": 5, "participants": [], "room": "101"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRoster), "got %v", err)
		})
	}
}
