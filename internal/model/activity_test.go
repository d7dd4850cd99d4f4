package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_HasParticipant(t *testing.T) {
	t.Parallel()

	a := &Activity{Name: "Chess Club", Participants: []string{"michael@mergington.edu"}}

	assert.True(t, a.HasParticipant("michael@mergington.edu"))
	assert.False(t, a.HasParticipant("daniel@mergington.edu"))
}

func TestActivity_Clone_DoesNotAlias(t *testing.T) {
	t.Parallel()

	a := &Activity{Name: "Chess Club", Participants: []string{"michael@mergington.edu"}}
	c := a.Clone()
	c.Participants = append(c.Participants, "new@mergington.edu")
	c.Participants[0] = "changed@mergington.edu"

	assert.Equal(t, []string{"michael@mergington.edu"}, a.Participants)
	assert.Nil(t, (*Activity)(nil).Clone())
}

func TestRegistry_JSONShape(t *testing.T) {
	t.Parallel()

	reg := NewRegistry([]*Activity{{
		Name:            "Math Club",
		Description:     "Solve problems",
		Schedule:        "Tuesdays",
		MaxParticipants: 10,
		Participants:    []string{"james@mergington.edu"},
	}})

	data, err := json.Marshal(reg)
	require.NoError(t, err)

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	entry, ok := decoded["Math Club"]
	require.True(t, ok)
	assert.Equal(t, "Solve problems", entry["description"])
	assert.Equal(t, "Tuesdays", entry["schedule"])
	assert.Equal(t, float64(10), entry["max_participants"])
	assert.Equal(t, []interface{}{"james@mergington.edu"}, entry["participants"])
	assert.NotContains(t, entry, "Name")
}
