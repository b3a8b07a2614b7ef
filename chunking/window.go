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
	"fmt"

	"github.com/poiesic/blogdex/core"
)

// Window is one slice of a text.
type Window struct {
	Start int
	Text  string
}

// Split cuts text into windows of size code points taken every step code points.
// The final window may be shorter than size. An empty text yields a single empty
// window at offset 0.
func Split(text string, size, step int) ([]Window, error) {
	if size <= 0 || step <= 0 {
		return nil, fmt.Errorf("%w: size and step must be positive (size=%d, step=%d)",
			core.ErrInvalidParameter, size, step)
	}

	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return []Window{{Start: 0, Text: ""}}, nil
	}

	windows := make([]Window, 0, windowCount(n, size, step))
	for start := 0; start < n; start += step {
		end := min(start+size, n)
		windows = append(windows, Window{Start: start, Text: string(runes[start:end])})
		if start+size >= n {
			break
		}
	}
	return windows, nil
}

// windowCount estimates the number of windows for capacity planning.
func windowCount(n, size, step int) int {
	if n <= size {
		return 1
	}
	return (n-size+step-1)/step + 1
}
