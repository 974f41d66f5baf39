package confirm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlways(t *testing.T) {
	ok, err := Always{}.Confirm("replace the live Preferences?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScripted(t *testing.T) {
	c := Scripted(true, false)

	ok, err := c.Confirm("first")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Confirm("second")
	require.NoError(t, err)
	assert.False(t, ok)

	// Exhausted answers decline
	ok, err = c.Confirm("third")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []string{"first", "second", "third"}, c.Prompts)
}

func TestConsoleNonInteractive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"uppercase_Y", "Y\n", true},
		{"no", "no\n", false},
		{"n", "n\n", false},
		{"empty_line", "\n", false},
		{"eof", "", false},
		{"garbage", "sure why not\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := &Console{In: strings.NewReader(tt.input), Out: &out}

			got, err := c.Confirm("overwrite?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "overwrite? [y/N]:")
		})
	}
}
