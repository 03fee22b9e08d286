package resources

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconIsCached(t *testing.T) {
	first, err := Icon(IconFile)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Content())

	second, err := Icon(IconFile)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestIconMissing(t *testing.T) {
	_, err := Icon("absent.png")
	assert.Error(t, err)
	assert.Panics(t, func() { MustIcon("absent.png") })
}

func TestSoundsAreEmbedded(t *testing.T) {
	names, err := fs.Glob(Sounds(), "*.wav")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"interval.wav",
		"work_complete.wav",
		"long_break.wav",
		"break_complete.wav",
	}, names)
}
