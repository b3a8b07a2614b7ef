package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/blogdex/ai/mock"
	"github.com/poiesic/blogdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("text %d", i)
	}
	return out
}

func TestEncoder_PreservesOrder(t *testing.T) {
	embedder := &mock.MockEmbedder{Dimensions: 4}
	enc, err := NewEncoder(embedder, WithBatchSize(3), WithPoolSize(4))
	require.NoError(t, err)
	defer enc.Release()

	input := texts(20)
	vectors, err := enc.Encode(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, vectors, len(input))
	for i, text := range input {
		assert.Equal(t, mock.GenerateVector(text, 4), vectors[i], "vector %d", i)
	}
	// 20 texts in batches of 3
	assert.Equal(t, 7, embedder.CallCount())
}

func TestEncoder_Deterministic(t *testing.T) {
	enc, err := NewEncoder(mock.NewMockEmbedder(), WithBatchSize(2))
	require.NoError(t, err)
	defer enc.Release()

	first, err := enc.Encode(context.Background(), texts(5))
	require.NoError(t, err)
	second, err := enc.Encode(context.Background(), texts(5))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncoder_Empty(t *testing.T) {
	enc, err := NewEncoder(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer enc.Release()

	vectors, err := enc.Encode(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEncoder_Failures(t *testing.T) {
	tests := []struct {
		name string
		fn   func(ctx context.Context, texts []string) ([][]float32, error)
	}{
		{
			name: "embedder error",
			fn: func(ctx context.Context, texts []string) ([][]float32, error) {
				return nil, errors.New("connection refused")
			},
		},
		{
			name: "count mismatch",
			fn: func(ctx context.Context, texts []string) ([][]float32, error) {
				return [][]float32{{1}}, nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := mock.NewMockEmbedder()
			embedder.EmbedTextsFunc = tt.fn
			enc, err := NewEncoder(embedder, WithBatchSize(2))
			require.NoError(t, err)
			defer enc.Release()

			_, err = enc.Encode(context.Background(), texts(6))
			assert.ErrorIs(t, err, core.ErrEmbeddingUnavailable)
		})
	}
}

func TestEncoder_CanceledContext(t *testing.T) {
	enc, err := NewEncoder(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer enc.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = enc.Encode(ctx, texts(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncoder_EncodeChunksUsesTitleAndText(t *testing.T) {
	enc, err := NewEncoder(&mock.MockEmbedder{Dimensions: 4})
	require.NoError(t, err)
	defer enc.Release()

	chunk := core.Chunk{Id: "a", Title: "Title", Text: "body"}
	vectors, err := enc.EncodeChunks(context.Background(), []core.Chunk{chunk})
	require.NoError(t, err)
	assert.Equal(t, mock.GenerateVector("Title body", 4), vectors[0])

	_, err = NewEncoder(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
