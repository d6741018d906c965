package slugs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func takenSet(taken ...string) ExistsFunc {
	set := make(map[string]bool, len(taken))
	for _, s := range taken {
		set[s] = true
	}
	return func(_ context.Context, slug string) (bool, error) {
		return set[slug], nil
	}
}

func TestUnique_NoCollision(t *testing.T) {
	got, err := Unique(context.Background(), "Apartman Budva", takenSet())

	require.NoError(t, err)
	assert.Equal(t, "apartman-budva", got)
}

func TestUnique_CollisionAppendsSuffix(t *testing.T) {
	got, err := Unique(context.Background(), "Apartman Budva", takenSet("apartman-budva"))

	require.NoError(t, err)
	assert.Equal(t, "apartman-budva-1", got)
}

func TestUnique_SuffixKeepsIncrementing(t *testing.T) {
	got, err := Unique(context.Background(), "Apartman Budva",
		takenSet("apartman-budva", "apartman-budva-1", "apartman-budva-2"))

	require.NoError(t, err)
	assert.Equal(t, "apartman-budva-3", got)
}

func TestUnique_Transliterates(t *testing.T) {
	got, err := Unique(context.Background(), "Стан у Будви", takenSet())

	require.NoError(t, err)
	assert.Equal(t, "stan-u-budvi", got)
}
