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

// Package huffman implements a static Huffman
// entropy coder generic over the symbol width.
//
// Compress analyzes the whole input up front,
// assigns each distinct symbol a prefix-free
// bit code weighted by its frequency, and packs
// the coded input into a byte buffer. The result
// is an Artifact carrying everything Decompress
// needs: the code table, the packed payload, and
// the exact payload bit count. Artifacts serialize
// to a self-describing binary container (see
// Artifact.Append and Unmarshal), so decoding
// requires no state beyond the container bytes.
//
// Each call builds its own tree and code table;
// no state is shared between calls, so concurrent
// use on independent inputs needs no coordination.
package huffman

import (
	"errors"
	"fmt"
)

// Symbol is the set of types the coder operates on:
// bytes, 16-bit units, and Unicode code points.
// The serialized width of a symbol is fixed by its
// type (1, 2, or 4 bytes), never by its value.
type Symbol interface {
	~uint8 | ~uint16 | ~rune
}

var (
	// ErrMalformed is returned when serialized
	// container bytes are structurally invalid:
	// a short buffer, a length mismatch, or a
	// code table that is not prefix-free.
	ErrMalformed = errors.New("huffman: malformed container")
	// ErrTruncated is returned when the payload
	// bit stream ends in the middle of a code.
	ErrTruncated = errors.New("huffman: truncated bit stream")
	// ErrNoCode is returned when encoding is
	// attempted with an empty code table against
	// a non-empty input. It indicates a bug in
	// the caller, not bad input data.
	ErrNoCode = errors.New("huffman: no code table for non-empty input")
)

// Artifact is the result of one Compress call:
// the code table and the packed payload, plus the
// exact number of meaningful payload bits. Unused
// low-order bits of the final payload byte are
// always zero and are identified only by Bits,
// never inferred from content.
type Artifact[T Symbol] struct {
	// Codes maps each symbol that occurred in the
	// input to its code, a non-empty string over
	// '0' and '1'. No code is a prefix of another.
	Codes map[T]string
	// Bits is the exact payload length in bits.
	Bits uint64
	// Payload holds the packed code stream,
	// most-significant bit first within each byte;
	// len(Payload) == (Bits+7)/8.
	Payload []byte
}

// Count tallies the occurrences of each distinct
// symbol in src. An empty input yields an empty map.
func Count[T Symbol](src []T) map[T]int {
	freqs := make(map[T]int, 16)
	for _, s := range src {
		freqs[s]++
	}
	return freqs
}

// Compress encodes src into a self-contained Artifact.
// An empty input produces an empty artifact (no codes,
// zero bits); this is not an error.
func Compress[T Symbol](src []T) (*Artifact[T], error) {
	codes := Codes(Count(src))
	bits, payload, err := EncodeBits(codes, src)
	if err != nil {
		return nil, err
	}
	return &Artifact[T]{
		Codes:   codes,
		Bits:    bits,
		Payload: payload,
	}, nil
}

// Decompress decodes an artifact back into the exact
// symbol sequence that produced it. It fails with
// ErrMalformed if the code table is inconsistent with
// the payload geometry and with ErrTruncated if the
// bit stream stops mid-code.
func Decompress[T Symbol](a *Artifact[T]) ([]T, error) {
	// the bit bound comes first so that the ceiling
	// division below cannot wrap around
	if a.Bits > uint64(len(a.Payload))*8 || uint64(len(a.Payload)) != (a.Bits+7)/8 {
		return nil, fmt.Errorf("%w: %d payload bytes for %d bits", ErrMalformed, len(a.Payload), a.Bits)
	}
	return DecodeBits(a.Codes, a.Bits, a.Payload)
}

// EncodeBits encodes src against an explicit code
// table, returning the exact bit count and the packed
// payload. Symbols absent from the table are dropped,
// not rejected; callers that need strictness should
// derive the table from src itself, which makes drops
// impossible. Encoding non-empty input against an
// empty table fails with ErrNoCode.
func EncodeBits[T Symbol](codes map[T]string, src []T) (uint64, []byte, error) {
	if len(src) == 0 {
		return 0, nil, nil
	}
	if len(codes) == 0 {
		return 0, nil, ErrNoCode
	}
	var w bitWriter
	for _, s := range src {
		if code, ok := codes[s]; ok {
			w.writeString(code)
		}
	}
	return w.total, w.finish(), nil
}

// DecodeBits decodes exactly bits bits of packed
// payload against a code table. Payload bytes beyond
// the stated bit count are ignored. A bit sequence
// that stops mid-code fails with ErrTruncated.
func DecodeBits[T Symbol](codes map[T]string, bits uint64, payload []byte) ([]T, error) {
	if bits == 0 {
		return nil, nil
	}
	if bits > uint64(len(payload))*8 {
		return nil, fmt.Errorf("%w: %d payload bytes for %d bits", ErrMalformed, len(payload), bits)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: %d payload bits but no code table", ErrMalformed, bits)
	}
	if len(codes) == 1 {
		// pass-through alphabet: the payload is one
		// "0" bit per symbol, so there is no tree to
		// walk; just repeat the lone symbol
		var sym T
		for s, code := range codes {
			if code != "0" {
				return nil, fmt.Errorf("%w: single-symbol code %q", ErrMalformed, code)
			}
			sym = s
		}
		out := make([]T, bits)
		for i := range out {
			out[i] = sym
		}
		return out, nil
	}
	root, err := rebuild(codes)
	if err != nil {
		return nil, err
	}
	var out []T
	n := root
	for i := uint64(0); i < bits; i++ {
		if payload[i>>3]&(0x80>>(i&7)) == 0 {
			n = n.left
		} else {
			n = n.right
		}
		if n.isLeaf() {
			out = append(out, n.sym)
			n = root
		}
	}
	if n != root {
		return nil, ErrTruncated
	}
	return out, nil
}
