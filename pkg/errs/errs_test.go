package errs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "no reference data",
			err:  ErrNoReferenceData,
			want: "No reference data for link look-up",
		},
		{
			name: "invalid parameter",
			err:  NewInvalidParameter("link_type", "bogus"),
			want: `invalid link_type="bogus"`,
		},
		{
			name: "missing coordinate frame",
			err:  &MissingCoordinateFrameError{Label: "image[SCI,1]"},
			want: `"image[SCI,1]": WCS linking is only possible if all data have valid WCS`,
		},
		{
			name: "lookup single label",
			err:  &LinkLookupError{Labels: []string{"ghost"}},
			want: "ghost not found in data collection external links",
		},
		{
			name: "lookup pair",
			err:  &LinkLookupError{Labels: []string{"a", "b"}},
			want: "a and b combo not found in data collection external links",
		},
		{
			name: "unsafe transition",
			err:  &UnsafeStateTransitionError{Reason: "cannot change linking while markers are present"},
			want: "cannot change linking while markers are present",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPredicatesMatchWrappedErrors(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("relink: %w", err) }

	assert.True(t, IsInvalidParameter(wrap(NewInvalidParameter("link_type", "x"))))
	assert.True(t, IsMissingCoordinateFrame(wrap(&MissingCoordinateFrameError{Label: "d"})))
	assert.True(t, IsLinkLookup(wrap(&LinkLookupError{Labels: []string{"d"}})))
	assert.True(t, IsLinkLookup(wrap(ErrNoReferenceData)))
	assert.True(t, IsUnsafeStateTransition(wrap(&UnsafeStateTransitionError{Reason: "pinned"})))

	assert.False(t, IsInvalidParameter(ErrNoReferenceData))
	assert.False(t, IsMissingCoordinateFrame(nil))
	assert.False(t, IsUnsafeStateTransition(fmt.Errorf("plain")))
}
