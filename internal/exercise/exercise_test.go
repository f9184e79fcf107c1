package exercise_test

import (
	"fmt"
	"testing"

	"github.com/shabelski89/pushups/internal/exercise"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Pushups(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "25", want: 25},
		{in: "did 30 today", want: 30},
		{in: " 40 ", want: 40},
		{in: "0", wantErr: true},
		{in: "nope", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, c := range cases {
		got, err := exercise.Parse(exercise.Pushups, c.in)
		if c.wantErr {
			require.ErrorIs(t, err, exercise.ErrInvalidValue, "input %q", c.in)
			continue
		}
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestParse_Plank(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1:30", want: 90},
		{in: "0:45", want: 45},
		{in: "90", want: 90},
		{in: "2:00", want: 120},
		{in: "0:00", wantErr: true},
		{in: "1:75", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "plank", wantErr: true},
	}
	for _, c := range cases {
		got, err := exercise.Parse(exercise.Plank, c.in)
		if c.wantErr {
			require.ErrorIs(t, err, exercise.ErrInvalidValue, "input %q", c.in)
			continue
		}
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestParse_UnknownKind(t *testing.T) {
	_, err := exercise.Parse(exercise.Kind("burpees"), "10")
	require.ErrorIs(t, err, exercise.ErrUnknownKind)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "75", exercise.Format(exercise.Pushups, 75))
	assert.Equal(t, "1:45", exercise.Format(exercise.Plank, 105))
	assert.Equal(t, "2:00", exercise.Format(exercise.Plank, 120))
	assert.Equal(t, "0:15", exercise.Format(exercise.Plank, 15))
	assert.Equal(t, "0:00", exercise.Format(exercise.Plank, 0))
}

func TestDurationRoundTrip(t *testing.T) {
	for _, sec := range []int{0, 1, 15, 59, 60, 61, 105, 120, 3599, 3600, 7325} {
		t.Run(fmt.Sprintf("%ds", sec), func(t *testing.T) {
			got, err := exercise.ToSeconds(exercise.FormatDuration(sec))
			require.NoError(t, err)
			assert.Equal(t, sec, got)
		})
	}
}

func TestKindsOrderStable(t *testing.T) {
	require.Equal(t, []exercise.Kind{exercise.Pushups, exercise.Plank}, exercise.Kinds())
	for _, k := range exercise.Kinds() {
		assert.True(t, exercise.Known(k))
	}
	assert.False(t, exercise.Known(exercise.Kind("burpees")))
}
