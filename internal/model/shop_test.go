package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityDecodeByTrial(t *testing.T) {
	var c Capacity
	require.NoError(t, json.Unmarshal([]byte(`42`), &c))
	assert.True(t, c.IsInt)
	assert.Equal(t, 42, c.Int)
	assert.Equal(t, "42", c.String())

	require.NoError(t, json.Unmarshal([]byte(`"20席"`), &c))
	assert.False(t, c.IsInt)
	assert.Equal(t, "20席", c.Str)
	assert.Equal(t, "20席", c.String())

	assert.Error(t, json.Unmarshal([]byte(`{"n":1}`), &c))
}

func TestCapacityRoundTrip(t *testing.T) {
	for _, in := range []string{`42`, `"20席"`} {
		var c Capacity
		require.NoError(t, json.Unmarshal([]byte(in), &c))
		out, err := json.Marshal(c)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(out))
	}
}

func TestSearchParamsValidate(t *testing.T) {
	assert.NoError(t, SearchParams{Range: 3}.Validate())
	assert.Error(t, SearchParams{Range: 0}.Validate())
	assert.Error(t, SearchParams{Range: 6}.Validate())
}

func TestRangeLabel(t *testing.T) {
	assert.Equal(t, "300m", RangeLabel(1))
	assert.Equal(t, "1km", RangeLabel(3))
	assert.Equal(t, "3km", RangeLabel(5))
	assert.Equal(t, "range 9", RangeLabel(9))
}
