package civil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Born *Date `json:"date_of_birth"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date_of_birth":"2001-09-14"}`), &payload))
	require.NotNil(t, payload.Born)
	assert.Equal(t, NewDate(2001, time.September, 14), *payload.Born)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date_of_birth":"2001-09-14"}`, string(out))
}

func TestDate_UnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"14/09/2001"`), &d))
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(1999, time.March, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1999-03-02", d.String())

	require.NoError(t, d.Scan([]byte("2010-12-31")))
	assert.Equal(t, "2010-12-31", d.String())

	require.NoError(t, d.Scan("2010-12-31 00:00:00+00"))
	assert.Equal(t, "2010-12-31", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := NewDate(2020, time.January, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "2020-01-05", v)
}
