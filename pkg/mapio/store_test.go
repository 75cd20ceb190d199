package mapio

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

func TestStore(t *testing.T) {
	opts := DefaultStoreOptions()
	opts.Registry = NewRegistry(sampleNames...)
	s, err := OpenStore(opts)
	require.NoError(t, err)
	defer s.Close()

	m := sampleMap(t)
	require.NoError(t, s.Put("beta", m))
	require.NoError(t, s.Put("alpha", pmwx.New(pmwx.DefaultOptions())))

	t.Run("get", func(t *testing.T) {
		got, err := s.Get("beta")
		require.NoError(t, err)
		require.NoError(t, got.Validate())
		requireSameMap(t, m, got, identity)
	})

	t.Run("names", func(t *testing.T) {
		names, err := s.Names()
		require.NoError(t, err)
		require.Equal(t, []string{"alpha", "beta"}, names)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Get("gamma")
		require.True(t, errors.Is(err, ErrMapNotFound), "got %v", err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete("alpha"))
		require.NoError(t, s.Delete("alpha"))
		names, err := s.Names()
		require.NoError(t, err)
		require.Equal(t, []string{"beta"}, names)
	})

	t.Run("closed", func(t *testing.T) {
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		_, err := s.Get("beta")
		require.Equal(t, ErrStoreClosed, err)
		require.Equal(t, ErrStoreClosed, s.Put("beta", m))
	})
}

func TestStoreReadOnlyNeedsDir(t *testing.T) {
	opts := DefaultStoreOptions()
	opts.ReadOnly = true
	_, err := OpenStore(opts)
	require.Error(t, err)
}

func TestStoreOnDisk(t *testing.T) {
	opts := DefaultStoreOptions()
	opts.Dir = t.TempDir()
	s, err := OpenStore(opts)
	require.NoError(t, err)

	m := sampleMap(t)
	require.NoError(t, s.Put("map", m))
	require.NoError(t, s.Close())

	s, err = OpenStore(opts)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get("map")
	require.NoError(t, err)
	requireSameMap(t, m, got, identity)
}
