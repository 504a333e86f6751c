// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package compr presents the huffman coder and
// third-party compression libraries behind one
// name-selected interface for byte payloads.
//
// Every Encoder produces a self-describing blob:
// the matching Decoder recovers the original bytes
// from the blob alone.
package compr

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"

	"github.com/huffpack/huffpack/huffman"
)

// Encoder encodes byte payloads into
// self-describing blobs.
type Encoder interface {
	// Name is the name of the encoding algorithm.
	Name() string
	// Encode appends the encoded form of src to dst
	// and returns the extended buffer.
	Encode(dst, src []byte) ([]byte, error)
}

// Decoder is the inverse of the Encoder
// with the same Name.
type Decoder interface {
	// Name is the name of the encoding algorithm.
	// See also Encoder.Name.
	Name() string
	// Decode appends the payload recovered from src
	// to dst and returns the extended buffer.
	// src must be exactly one encoded blob.
	Decode(dst, src []byte) ([]byte, error)
}

type huffCoder struct{}

func (huffCoder) Name() string { return "huffman" }

func (huffCoder) Encode(dst, src []byte) ([]byte, error) {
	a, err := huffman.Compress(src)
	if err != nil {
		return nil, err
	}
	return a.Append(dst), nil
}

func (huffCoder) Decode(dst, src []byte) ([]byte, error) {
	a, rest, err := huffman.Unmarshal[byte](src)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", huffman.ErrMalformed, len(rest))
	}
	out, err := huffman.Decompress(a)
	if err != nil {
		return nil, err
	}
	return append(dst, out...), nil
}

type zstdCoder struct {
	enc *zstd.Encoder
}

func (z zstdCoder) Name() string { return "zstd" }

func (z zstdCoder) Encode(dst, src []byte) ([]byte, error) {
	return z.enc.EncodeAll(src, dst), nil
}

var zstdDecoder *zstd.Decoder

func init() {
	z, err := zstd.NewReader(nil)
	if err != nil {
		panic(err)
	}
	zstdDecoder = z
}

type zstdDecompressor struct{}

func (zstdDecompressor) Name() string { return "zstd" }

func (zstdDecompressor) Decode(dst, src []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(src, dst)
}

type s2Coder struct{}

func (s2Coder) Name() string { return "s2" }

func (s2Coder) Encode(dst, src []byte) ([]byte, error) {
	return append(dst, s2.Encode(nil, src)...), nil
}

func (s2Coder) Decode(dst, src []byte) ([]byte, error) {
	out, err := s2.Decode(nil, src)
	if err != nil {
		return nil, err
	}
	return append(dst, out...), nil
}

// Encoding selects an encoder by name. The returned
// Encoder reports the given name from Encoder.Name.
// Unknown names yield nil.
func Encoding(name string) Encoder {
	switch name {
	case "huffman":
		return huffCoder{}
	case "zstd":
		z, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		if err != nil {
			panic(err)
		}
		return zstdCoder{z}
	case "s2":
		return s2Coder{}
	default:
		return nil
	}
}

// Decoding selects the decoder matching the encoder
// of the same name. Unknown names yield nil.
func Decoding(name string) Decoder {
	switch name {
	case "huffman":
		return huffCoder{}
	case "zstd":
		return zstdDecompressor{}
	case "s2":
		return s2Coder{}
	default:
		return nil
	}
}
