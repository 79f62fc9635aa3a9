package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/agentstation/rostersync/pkg/errors"
)

func TestMissingInputError(t *testing.T) {
	err := pkgerrors.NewMissingInputError("Users.csv", "/data/bs")
	assert.Equal(t, "cannot find required file Users.csv in directory /data/bs", err.Error())
	assert.True(t, pkgerrors.IsMissingInput(err))
	assert.True(t, pkgerrors.IsMissingInput(fmt.Errorf("convert: %w", err)))
	assert.False(t, pkgerrors.IsUnitResolution(err))
}

func TestUnitResolutionError(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		err := pkgerrors.NewUnitNotFoundError("Physics")
		assert.Contains(t, err.Error(), "Physics")
		assert.True(t, errors.Is(err, pkgerrors.ErrUnitNotFound))
		assert.False(t, errors.Is(err, pkgerrors.ErrUnitAmbiguous))
		assert.True(t, pkgerrors.IsUnitResolution(err))
	})

	t.Run("multiple", func(t *testing.T) {
		err := pkgerrors.NewUnitAmbiguousError("Math", [][]string{{"1", "Math"}, {"2", "Math"}})
		assert.Contains(t, err.Error(), "ambiguous")
		assert.Contains(t, err.Error(), "2 candidates")
		assert.True(t, errors.Is(err, pkgerrors.ErrUnitAmbiguous))
		assert.False(t, errors.Is(err, pkgerrors.ErrUnitNotFound))

		var target *pkgerrors.UnitResolutionError
		assert.True(t, pkgerrors.As(fmt.Errorf("resolve: %w", err), &target))
		assert.Len(t, target.Candidates, 2)
	})
}

func TestMergeKeyCollisionError(t *testing.T) {
	err := &pkgerrors.MergeKeyCollisionError{Dataset: "UserEnrollments", Key: []string{"10", "u1"}, Count: 2}
	assert.Equal(t, "merged UserEnrollments table holds 2 rows for key (10,u1)", err.Error())
	assert.True(t, pkgerrors.IsMergeKeyCollision(err))
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		status       int
		unauthorized bool
		unavailable  bool
	}{
		{401, true, false},
		{403, true, false},
		{404, false, false},
		{503, false, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			err := &pkgerrors.APIError{Service: "brightspace", StatusCode: tt.status, Message: "boom"}
			assert.Contains(t, err.Error(), "brightspace")
			assert.Equal(t, tt.unauthorized, pkgerrors.IsUnauthorized(err))
			assert.Equal(t, tt.unavailable, errors.Is(err, pkgerrors.ErrUnavailable))
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("csv", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("merge", "dataset", "x", nil))
	assert.NoError(t, pkgerrors.WrapValidation("x", nil))

	base := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "/out/users.csv", base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "IO error during write of /out/users.csv: disk full", err.Error())

	err = pkgerrors.WrapParse("csv", "Users.csv", base)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "Users.csv")

	err = &pkgerrors.ParseError{Format: "csv", File: "Users.csv", Line: 3, Message: "short row"}
	assert.Equal(t, "parse error in csv at Users.csv:3: short row", err.Error())

	assert.True(t, pkgerrors.IsValidationError(pkgerrors.WrapValidation("key_width", base)))
}
