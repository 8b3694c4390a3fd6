package store

import (
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stringValuer struct {
	v string
}

func (s stringValuer) Value() (driver.Value, error) {
	return s.v, nil
}

type failingValuer struct{}

func (failingValuer) Value() (driver.Value, error) {
	return nil, errors.New("no value")
}

func TestStore_Normalize(t *testing.T) {
	t.Parallel()

	ts := time.Date(2018, 4, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "bool", in: true, want: true},
		{name: "string", in: "Butter, salted", want: "Butter, salted"},
		{name: "int64", in: int64(42), want: int64(42)},
		{name: "float64", in: 717.0, want: 717.0},
		{name: "bytes to string", in: []byte("01001"), want: "01001"},
		{name: "time to rfc3339", in: ts, want: "2018-04-01T12:30:00Z"},
		{name: "valuer unwraps", in: stringValuer{v: "14.500"}, want: "14.500"},
		{name: "failing valuer falls back to string form", in: failingValuer{}, want: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, normalize(tt.in))
		})
	}
}
