package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestamp_Formats(t *testing.T) {
	cases := map[string]time.Time{
		`"2025-03-01T10:20:30.123456"`: time.Date(2025, 3, 1, 10, 20, 30, 123456000, time.UTC),
		`"2025-03-01T10:20:30"`:        time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2025-03-01T10:20:30Z"`:       time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2025-03-01T12:20:30+02:00"`:  time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2025-03-01"`:                 time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		require.True(t, want.Equal(ts.Time), "%s => %s", in, ts.Time)
	}

	var zero Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &zero))
	require.True(t, zero.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`""`), &zero))
	require.True(t, zero.IsZero())

	var bad Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))
}

func TestTimestamp_Marshal(t *testing.T) {
	b, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	require.Equal(t, "null", string(b))

	b, err = json.Marshal(Timestamp{time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Equal(t, `"2025-03-01T10:00:00Z"`, string(b))
}
