package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	c := JSON{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(payload{Name: "a", Count: 3})
	require.NoError(t, err)

	var decoded payload
	require.NoError(t, c.Unmarshal(data, &decoded))
	assert.Equal(t, payload{Name: "a", Count: 3}, decoded)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestMustMarshal(t *testing.T) {
	data := MustMarshal(nil, map[string]int{"x": 1})
	assert.JSONEq(t, `{"x":1}`, string(data))

	assert.Panics(t, func() {
		MustMarshal(JSON{}, make(chan int))
	})
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "json", Default.Name())
}
