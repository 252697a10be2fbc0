package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isConfig bool
		isModel  bool
		message  string
	}{
		{
			name:     "config",
			err:      Config("It is not possible to make lookup field for %s database.", "GENERIC"),
			isConfig: true,
			message:  "It is not possible to make lookup field for GENERIC database.",
		},
		{
			name:    "model",
			err:     Model("generalization set has no generalizations", "LifePhase"),
			isModel: true,
			message: "generalization set has no generalizations",
		},
		{
			name:    "wrapped model",
			err:     xerrors.Errorf("reduce: %w", Modelf("class %q is stuck", "Adult")),
			isModel: true,
			message: `reduce: class "Adult" is stuck`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isConfig, errors.Is(tt.err, ErrConfig))
			assert.Equal(t, tt.isModel, errors.Is(tt.err, ErrModel))
			assert.EqualError(t, tt.err, tt.message)
		})
	}
}

func TestPretty(t *testing.T) {
	err := Model("stuck generalizations", "Person -> Adult")

	var e Error
	require.True(t, errors.As(err, &e))
	assert.Contains(t, e.Pretty(), "malformed model: stuck generalizations")
	assert.Contains(t, e.Pretty(), `"Person -> Adult"`)
}
