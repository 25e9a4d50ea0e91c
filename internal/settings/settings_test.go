package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEmptyBlobYieldsDefaults(t *testing.T) {
	assert.Equal(t, Defaults(), Merge(nil))
}

func TestMergePartialBlobKeepsDefaults(t *testing.T) {
	got := Merge([]byte(`{"musicVolume":30}`))

	assert.Equal(t, 30, got.MusicVolume)
	assert.Equal(t, 80, got.EffectsVolume)
	assert.True(t, got.ShowNotifications)
}

func TestMergeCorruptBlobFallsBack(t *testing.T) {
	assert.Equal(t, Defaults(), Merge([]byte(`{broken`)))
}

func TestPatchClampsVolumes(t *testing.T) {
	loud := 150
	quiet := -10
	got := Patch{MusicVolume: &loud, EffectsVolume: &quiet}.Apply(Defaults())

	assert.Equal(t, 100, got.MusicVolume)
	assert.Equal(t, 0, got.EffectsVolume)
}

func TestFileRepoRoundTrip(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Defaults(), repo.Get("u1"))

	s := Defaults()
	s.ShowNotifications = false
	require.NoError(t, repo.Put("u1", s))

	assert.False(t, repo.Get("u1").ShowNotifications)
	assert.Equal(t, Defaults(), repo.Get("u2"))
}
