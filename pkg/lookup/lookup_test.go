package lookup

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out))
	return out
}

func TestLookup(t *testing.T) {
	data := decode(t, `{
		"name": "Borderlands",
		"steam_appid": 8980,
		"release_date": {"coming_soon": false, "date": "26 Oct, 2009"},
		"metacritic": {"score": 81},
		"price_overview": {"currency": "GBP", "initial": 1999, "final": 499},
		"cut": 75.0,
		"price": 4.99,
		"nothing": null,
		"list": [1, 2]
	}`)

	require.NotNil(t, String(data, "name"))
	assert.Equal(t, "Borderlands", *String(data, "name"))
	assert.Equal(t, "26 Oct, 2009", *String(data, "release_date", "date"))
	assert.Equal(t, 8980, *Int(data, "steam_appid"))
	assert.Equal(t, 81, *Int(data, "metacritic", "score"))
	assert.Equal(t, 1999, *Int(data, "price_overview", "initial"))
	assert.Equal(t, 75, *Int(data, "cut"))
	assert.InDelta(t, 4.99, *Float(data, "price"), 1e-9)
	assert.NotNil(t, Object(data, "price_overview"))

	ok, found := Bool(data, "release_date", "coming_soon")
	assert.True(t, found)
	assert.False(t, ok)
}

func TestLookup_Missing(t *testing.T) {
	data := decode(t, `{"name": 5, "release_date": "soon", "nothing": null, "list": [1]}`)

	assert.Nil(t, String(data, "short_description"))
	assert.Nil(t, String(data, "name"), "wrong type is absent")
	assert.Nil(t, String(data, "release_date", "date"), "descending into a string is absent")
	assert.Nil(t, Int(data, "metacritic", "score"))
	assert.Nil(t, Int(data, "nothing"))
	assert.Nil(t, Float(data, "list", "0"))
	assert.Nil(t, Object(data, "price_overview"))
	assert.Nil(t, String(nil, "anything"))

	_, found := Bool(data, "success")
	assert.False(t, found)
}

func TestLookup_PlainFloats(t *testing.T) {
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"shop": {"name": "Steam"}, "cut": 50, "price": 10.99}`), &data))

	assert.Equal(t, "Steam", *String(data, "shop", "name"))
	assert.Equal(t, 50, *Int(data, "cut"))
	assert.InDelta(t, 10.99, *Float(data, "price"), 1e-9)
}
