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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted records. Fields are written in declaration
// order; slices are length-prefixed with a varint.

var (
	IDMUS          = idMUS{}
	ChunkMUS       = chunkMUS{}
	StoredChunkMUS = storedChunkMUS{}
	ManifestMUS    = manifestMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func marshalStrings(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return
}

func unmarshalStrings(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	v = make([]string, length)
	var n1 int
	for i := range v {
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeStrings(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	v = make([]float32, length)
	var n1 int
	for i := range v {
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeVector(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return
}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Start, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.Id, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Author, bs[n:])
	n += ord.String.Marshal(v.Date, bs[n:])
	n += ord.String.Marshal(v.SourceURL, bs[n:])
	return n + marshalStrings(v.Tags, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Start, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	for _, field := range []*string{&v.Text, &v.Id, &v.Title, &v.Author, &v.Date, &v.SourceURL} {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	v.Tags, n1, err = unmarshalStrings(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = varint.Int.Size(v.Start)
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Author)
	size += ord.String.Size(v.Date)
	size += ord.String.Size(v.SourceURL)
	return size + sizeStrings(v.Tags)
}

type storedChunkMUS struct{}

func (s storedChunkMUS) Marshal(v StoredChunk, bs []byte) (n int) {
	n = varint.Uint64.Marshal(v.Seq, bs)
	n += ChunkMUS.Marshal(v.Chunk, bs[n:])
	return n + marshalVector(v.Vector, bs[n:])
}

func (s storedChunkMUS) Unmarshal(bs []byte) (v StoredChunk, n int, err error) {
	v.Seq, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Chunk, n1, err = ChunkMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = unmarshalVector(bs[n:])
	n += n1
	return
}

func (s storedChunkMUS) Size(v StoredChunk) (size int) {
	size = varint.Uint64.Size(v.Seq)
	size += ChunkMUS.Size(v.Chunk)
	return size + sizeVector(v.Vector)
}

type manifestMUS struct{}

func (s manifestMUS) Marshal(v Manifest, bs []byte) (n int) {
	n = ord.String.Marshal(v.BuildID, bs)
	n += ord.String.Marshal(v.ModelName, bs[n:])
	n += varint.Int.Marshal(v.Dimensions, bs[n:])
	n += varint.Int.Marshal(v.ChunkCount, bs[n:])
	n += varint.Int.Marshal(v.WindowSize, bs[n:])
	n += varint.Int.Marshal(v.Overlap, bs[n:])
	return n + varint.Int64.Marshal(v.BuiltAt.UnixMicro(), bs[n:])
}

func (s manifestMUS) Unmarshal(bs []byte) (v Manifest, n int, err error) {
	var n1 int
	for _, field := range []*string{&v.BuildID, &v.ModelName} {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for _, field := range []*int{&v.Dimensions, &v.ChunkCount, &v.WindowSize, &v.Overlap} {
		*field, n1, err = varint.Int.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	micros, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.BuiltAt = time.UnixMicro(micros).UTC()
	return
}

func (s manifestMUS) Size(v Manifest) (size int) {
	size = ord.String.Size(v.BuildID)
	size += ord.String.Size(v.ModelName)
	size += varint.Int.Size(v.Dimensions)
	size += varint.Int.Size(v.ChunkCount)
	size += varint.Int.Size(v.WindowSize)
	size += varint.Int.Size(v.Overlap)
	return size + varint.Int64.Size(v.BuiltAt.UnixMicro())
}
