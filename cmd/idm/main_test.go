package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/idm-engine/internal/kinematics"
)

func runJSON(t *testing.T, args ...string) result {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(args, &out))

	var r result
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	return r
}

func TestRun(t *testing.T) {
	t.Run("slower leader", func(t *testing.T) {
		// Positions 80 and 100 with 1.6 m vehicles: an 18.4 m bumper gap.
		r := runJSON(t, "-speed", "22.22", "-front-speed", "19.44", "-gap", "18.4", "-length", "1.6")
		assert.Equal(t, kinematics.IDMModelName, r.Model)
		assert.InDelta(t, 35.33, r.SafeDistance, 1e-9)
		assert.InDelta(t, 67.8865, r.DesiredDynamicalDistance, 1e-4)
		assert.InDelta(t, 0.241, r.DesiredAcceleration, 0.001)
		assert.InDelta(t, -3.843, r.Acceleration, 0.001)
		require.NotNil(t, r.FrontDistance)
		assert.InDelta(t, 18.4, *r.FrontDistance, 1e-9)
	})

	t.Run("gap is bumper to bumper whatever the length", func(t *testing.T) {
		for _, length := range []string{"1.6", "4.5", "12"} {
			r := runJSON(t, "-speed", "22.22", "-front-speed", "19.44", "-gap", "20", "-length", length)
			require.NotNil(t, r.FrontDistance)
			assert.InDelta(t, 20.0, *r.FrontDistance, 1e-9, "length %s", length)
			assert.InDelta(t, -3.2157, r.Acceleration, 0.001, "length %s", length)
		}
	})

	t.Run("open road", func(t *testing.T) {
		r := runJSON(t, "-speed", "22.22")
		assert.Nil(t, r.FrontDistance)
		assert.Equal(t, r.DesiredAcceleration, r.Acceleration)
	})

	t.Run("custom calibration", func(t *testing.T) {
		r := runJSON(t, "-v0", "20", "-a", "1", "-speed", "20")
		assert.Equal(t, 0.0, r.Acceleration)
	})
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer

	err := run([]string{"-a", "0"}, &out)
	assert.True(t, errors.Is(err, kinematics.ErrInvalidParameter))

	assert.Error(t, run([]string{"-gap", "-5"}, &out))
	assert.Error(t, run([]string{"-speed", "fast"}, &out))
	assert.Error(t, run([]string{"-length", "-1"}, &out))

	for _, args := range [][]string{
		{"-speed", "10", "-gap", "NaN"},
		{"-speed", "10", "-gap", "-Inf"},
		{"-speed", "NaN"},
		{"-speed", "+Inf", "-gap", "20"},
		{"-front-speed", "NaN", "-gap", "20"},
		{"-length", "+Inf"},
	} {
		err := run(args, &out)
		require.Error(t, err, "%v", args)
		assert.NotContains(t, err.Error(), "json", "%v rejected before encoding", args)
	}

	err = run([]string{"-speed", "NaN"}, &out)
	assert.EqualError(t, err, "speed must be finite, got NaN")

	assert.Empty(t, out.String())
}
