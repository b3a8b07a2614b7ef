// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunking

import (
	"strings"
	"testing"

	"github.com/poiesic/blogdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Example(t *testing.T) {
	windows, err := Split("abcdefghij", 4, 2)
	require.NoError(t, err)

	starts := make([]int, len(windows))
	texts := make([]string, len(windows))
	for i, w := range windows {
		starts[i] = w.Start
		texts[i] = w.Text
	}
	assert.Equal(t, []int{0, 2, 4, 6}, starts)
	assert.Equal(t, []string{"abcd", "cdef", "efgh", "ghij"}, texts)
}

func TestSplit_InvalidParameters(t *testing.T) {
	tests := []struct {
		name       string
		size, step int
	}{
		{"zero size", 0, 1},
		{"negative size", -4, 1},
		{"zero step", 4, 0},
		{"negative step", 4, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split("text", tt.size, tt.step)
			assert.ErrorIs(t, err, core.ErrInvalidParameter)
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	windows, err := Split("", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []Window{{Start: 0, Text: ""}}, windows)
}

func TestSplit_ShortText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"shorter than window", "abc"},
		{"exactly one window", "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := Split(tt.text, 4, 2)
			require.NoError(t, err)
			require.Len(t, windows, 1)
			assert.Equal(t, tt.text, windows[0].Text)
		})
	}
}

func TestSplit_ClippedFinalWindow(t *testing.T) {
	windows, err := Split("abcdefghijk", 4, 3)
	require.NoError(t, err)

	require.Len(t, windows, 4)
	last := windows[len(windows)-1]
	assert.Equal(t, 9, last.Start)
	assert.Equal(t, "jk", last.Text)
}

func TestSplit_CountsCodePoints(t *testing.T) {
	windows, err := Split("héllo wörld", 5, 5)
	require.NoError(t, err)

	require.Len(t, windows, 3)
	assert.Equal(t, "héllo", windows[0].Text)
	assert.Equal(t, " wörl", windows[1].Text)
	assert.Equal(t, "d", windows[2].Text)
	assert.Equal(t, 10, windows[2].Start)
}

func TestSplit_CoverageAndCount(t *testing.T) {
	for n := 1; n <= 40; n++ {
		text := strings.Repeat("x", n)
		for size := 2; size <= 12; size++ {
			for step := 1; step < size; step++ {
				windows, err := Split(text, size, step)
				require.NoError(t, err)

				covered := make([]bool, n)
				for _, w := range windows {
					for i := w.Start; i < w.Start+len([]rune(w.Text)); i++ {
						covered[i] = true
					}
				}
				for i, ok := range covered {
					require.Truef(t, ok, "gap at %d (n=%d size=%d step=%d)", i, n, size, step)
				}

				last := windows[len(windows)-1]
				require.Equal(t, n, last.Start+len([]rune(last.Text)))

				want := 1
				if n > size {
					want = (n-size+step-1)/step + 1
				}
				require.Equalf(t, want, len(windows), "n=%d size=%d step=%d", n, size, step)
			}
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox ", 50)
	a, err := Split(text, 64, 48)
	require.NoError(t, err)
	b, err := Split(text, 64, 48)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
