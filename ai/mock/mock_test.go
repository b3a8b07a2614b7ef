package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "social magic")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "social magic")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "card tricks")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, DefaultDimensions)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	assert.Equal(t, 3, m.CallCount())
}

func TestMockEmbedder_BatchMatchesSingle(t *testing.T) {
	m := &MockEmbedder{Dimensions: 8}
	ctx := context.Background()

	batch, err := m.EmbedTexts(ctx, []string{"x", "y"})
	require.NoError(t, err)
	single, err := m.EmbedText(ctx, "y")
	require.NoError(t, err)

	require.Len(t, batch, 2)
	assert.Len(t, batch[0], 8)
	assert.Equal(t, single, batch[1])
}

func TestMockTagger_Default(t *testing.T) {
	m := NewMockTagger()
	tags, err := m.Tag(context.Background(), "Social Magic", "A card trick at a party.", []string{"Theory", "card", "social magic"})
	require.NoError(t, err)
	assert.Equal(t, []string{"card", "social magic"}, tags)

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
}
