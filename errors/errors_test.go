package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestAs(t *testing.T) {
	original := &customError{msg: "custom"}
	wrapped := Wrap(WithStack(original), "wrapped")

	var target *customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "custom", target.msg)
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestMarkedSentinels(t *testing.T) {
	err := Mark(New("field Shelter.cats references Missing"), ErrUnresolvedReference)
	err = Wrap(err, "generate")

	assert.True(t, Is(err, ErrUnresolvedReference))
	assert.False(t, Is(err, ErrUnsupportedType))
	assert.True(t, IsGenerationError(err))
	assert.Contains(t, err.Error(), "Shelter.cats")
}

func TestIsGenerationError(t *testing.T) {
	assert.False(t, IsGenerationError(nil))
	assert.False(t, IsGenerationError(New("plain")))
	assert.True(t, IsGenerationError(Wrap(ErrNameCollision, "renames")))
	assert.True(t, IsGenerationError(Mark(New("x"), ErrUnsupportedType)))
	assert.False(t, IsGenerationError(ErrInvalidDescriptor))
}

func TestNewInvalidDescriptorError(t *testing.T) {
	err := NewInvalidDescriptorError("unknown kind %q", "tuple")

	assert.True(t, Is(err, ErrInvalidDescriptor))
	assert.Equal(t, `unknown kind "tuple"`, err.Error())
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
}

func ExampleWrap() {
	baseErr := New("no descriptor files")
	err := Wrap(baseErr, "failed to load target api")
	fmt.Println(err)
	// Output: failed to load target api: no descriptor files
}
