package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/catchsim/internal/dynamo"
)

func TestKeyFormat(t *testing.T) {
	sc := dynamo.DefaultScenario()

	assert.Equal(t, "PID_A30_BallX070_TrainX010", KeyFor("PID", 0, sc, false).String())
	assert.Equal(t, "Random_S01_A30_BallX070Y100_TrainX010", FormatKey(KeyFor("Random", 1, sc, true)))

	sc.AngleDeg = 4.6
	sc.BallX = 21.2
	assert.Equal(t, "PID_A05_BallX021_TrainX010", KeyFor("PID", 0, sc, false).String())
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Key
	}{
		{
			name: "grid key",
			in:   "PID_A30_BallX070_TrainX010",
			want: Key{Prefix: "PID", Angle: 30, BallX: 70, TrainX: 10},
		},
		{
			name: "random key with extension",
			in:   "csv_data/Random_S07_A12_BallX055Y080_TrainX003.csv",
			want: Key{Prefix: "Random", Seq: 7, Angle: 12, BallX: 55, BallY: 80, TrainX: 3, HasY: true},
		},
		{
			name: "angle only",
			in:   "PID_Controller_Angle_30.csv",
			want: Key{Prefix: "PID_Controller", Angle: 30, AngleOnly: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	for _, k := range []Key{
		{Prefix: "PID", Angle: 0, BallX: 100, TrainX: 0},
		{Prefix: "Random", Seq: 12, Angle: 44, BallX: 99, BallY: 30, TrainX: 79, HasY: true},
		{Prefix: "PID_Controller", Angle: 5, AngleOnly: true},
	} {
		got, err := ParseKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}

func TestParseKeyRejects(t *testing.T) {
	for _, in := range []string{"", "dataset.csv", "PID_A30_BallX070", "PID_Ax_BallX070_TrainX010"} {
		_, err := ParseKey(in)
		assert.ErrorIs(t, err, ErrKey, in)
	}
}

func TestKeyApply(t *testing.T) {
	base := dynamo.DefaultScenario()

	k, err := ParseKey("Random_S01_A12_BallX055Y080_TrainX003")
	require.NoError(t, err)
	sc := k.Apply(base)
	assert.Equal(t, 12.0, sc.AngleDeg)
	assert.Equal(t, 55.0, sc.BallX)
	assert.Equal(t, 80.0, sc.BallY0)
	assert.Equal(t, 3.0, sc.TrainX0)
	assert.Equal(t, base.Kp, sc.Kp)

	k, err = ParseKey("PID_A05_BallX040_TrainX020")
	require.NoError(t, err)
	sc = k.Apply(base)
	assert.Equal(t, base.BallY0, sc.BallY0)

	k, err = ParseKey("PID_Controller_Angle_15")
	require.NoError(t, err)
	sc = k.Apply(base)
	assert.Equal(t, 15.0, sc.AngleDeg)
	assert.Equal(t, base.BallX, sc.BallX)
}

func TestKeyNegativeAngle(t *testing.T) {
	sc := dynamo.DefaultScenario()
	sc.AngleDeg = -5.4

	k := KeyFor("PID", 0, sc, false)
	assert.Equal(t, "PID_A-5_BallX070_TrainX010", k.String())

	parsed, err := ParseKey(k.String())
	require.NoError(t, err)
	assert.Equal(t, -5, parsed.Angle)
	assert.Equal(t, k.String(), parsed.String())
	assert.Equal(t, -5.0, parsed.Apply(sc).AngleDeg)

	parsed, err = ParseKey("PID_Controller_Angle_-10")
	require.NoError(t, err)
	assert.Equal(t, -10, parsed.Angle)
}
