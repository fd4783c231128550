package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONNullable(t *testing.T) {
	type body struct {
		EndedAt jsonNullable[time.Time] `json:"ended_at"`
	}

	var absent body
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.EndedAt.Set)
	assert.Nil(t, absent.EndedAt.Value)

	var null body
	require.NoError(t, json.Unmarshal([]byte(`{"ended_at":null}`), &null))
	assert.True(t, null.EndedAt.Set)
	assert.Nil(t, null.EndedAt.Value)

	var set body
	require.NoError(t, json.Unmarshal([]byte(`{"ended_at":"2025-06-01T19:00:00Z"}`), &set))
	assert.True(t, set.EndedAt.Set)
	require.NotNil(t, set.EndedAt.Value)
	assert.Equal(t, time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC), set.EndedAt.Value.UTC())

	var bad body
	assert.Error(t, json.Unmarshal([]byte(`{"ended_at":42}`), &bad))
}
