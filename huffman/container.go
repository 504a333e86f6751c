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

package huffman

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Container layout, all integers big-endian:
//
//	u32   number of code table entries
//	per entry, in ascending symbol order:
//	  u8/u16/u32  symbol (width fixed by the symbol type)
//	  u16         code length in bits (>= 1)
//	  bytes       packed code, (len+7)/8 bytes, zero-padded
//	u32   payload length in bytes
//	u64   payload length in bits
//	bytes payload, exactly the stated byte length
//
// The byte length always equals (bit length + 7) / 8;
// a container violating that is rejected.

// symbolWidth is the fixed serialized size of T.
func symbolWidth[T Symbol]() int {
	return int(unsafe.Sizeof(*new(T)))
}

func appendSymbol[T Symbol](dst []byte, s T) []byte {
	switch symbolWidth[T]() {
	case 1:
		return append(dst, byte(s))
	case 2:
		return binary.BigEndian.AppendUint16(dst, uint16(s))
	default:
		return binary.BigEndian.AppendUint32(dst, uint32(s))
	}
}

func readSymbol[T Symbol](src []byte) (T, []byte, error) {
	w := symbolWidth[T]()
	if len(src) < w {
		return *new(T), nil, fmt.Errorf("%w: %d bytes for a %d-byte symbol", ErrMalformed, len(src), w)
	}
	switch w {
	case 1:
		return T(src[0]), src[1:], nil
	case 2:
		return T(binary.BigEndian.Uint16(src)), src[2:], nil
	default:
		return T(binary.BigEndian.Uint32(src)), src[4:], nil
	}
}

// maxEntries is the largest code table a symbol
// width can produce; anything bigger is garbage.
func maxEntries[T Symbol]() int {
	switch symbolWidth[T]() {
	case 1:
		return 1 << 8
	case 2:
		return 1 << 16
	default:
		return 0x110000 // beyond the last Unicode code point
	}
}

// Append serializes the artifact and appends it to dst.
// The output is deterministic: the same artifact always
// produces identical bytes.
func (a *Artifact[T]) Append(dst []byte) []byte {
	syms := maps.Keys(a.Codes)
	slices.Sort(syms)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(syms)))
	for _, s := range syms {
		code := a.Codes[s]
		dst = appendSymbol(dst, s)
		dst = binary.BigEndian.AppendUint16(dst, uint16(len(code)))
		dst = append(dst, packString(code)...)
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(a.Payload)))
	dst = binary.BigEndian.AppendUint64(dst, a.Bits)
	return append(dst, a.Payload...)
}

// Marshal serializes the artifact into a fresh buffer.
func (a *Artifact[T]) Marshal() []byte {
	return a.Append(nil)
}

// Unmarshal parses one container from the front of src
// and returns the artifact plus any remaining bytes.
// Structurally invalid input fails with ErrMalformed;
// Unmarshal never guesses at truncated fields.
func Unmarshal[T Symbol](src []byte) (*Artifact[T], []byte, error) {
	if len(src) < 4 {
		return nil, nil, fmt.Errorf("%w: %d bytes reading entry count", ErrMalformed, len(src))
	}
	count := int(binary.BigEndian.Uint32(src))
	src = src[4:]
	if count > maxEntries[T]() {
		return nil, nil, fmt.Errorf("%w: %d table entries for a %d-byte symbol", ErrMalformed, count, symbolWidth[T]())
	}
	codes := make(map[T]string, count)
	for i := 0; i < count; i++ {
		var sym T
		var err error
		sym, src, err = readSymbol[T](src)
		if err != nil {
			return nil, nil, err
		}
		if len(src) < 2 {
			return nil, nil, fmt.Errorf("%w: %d bytes reading code length", ErrMalformed, len(src))
		}
		nbits := int(binary.BigEndian.Uint16(src))
		src = src[2:]
		if nbits == 0 {
			return nil, nil, fmt.Errorf("%w: zero-length code", ErrMalformed)
		}
		nbytes := (nbits + 7) / 8
		if len(src) < nbytes {
			return nil, nil, fmt.Errorf("%w: %d bytes for a %d-bit code", ErrMalformed, len(src), nbits)
		}
		if _, ok := codes[sym]; ok {
			return nil, nil, fmt.Errorf("%w: duplicate table entry", ErrMalformed)
		}
		codes[sym] = unpackString(src, nbits)
		src = src[nbytes:]
	}
	if len(src) < 12 {
		return nil, nil, fmt.Errorf("%w: %d bytes reading payload lengths", ErrMalformed, len(src))
	}
	nbytes := int(binary.BigEndian.Uint32(src))
	bits := binary.BigEndian.Uint64(src[4:])
	src = src[12:]
	// the bit bound comes first so that the ceiling
	// division below cannot wrap around
	if bits > uint64(nbytes)*8 || uint64(nbytes) != (bits+7)/8 {
		return nil, nil, fmt.Errorf("%w: %d payload bytes for %d bits", ErrMalformed, nbytes, bits)
	}
	if len(src) < nbytes {
		return nil, nil, fmt.Errorf("%w: %d bytes for a %d-byte payload", ErrMalformed, len(src), nbytes)
	}
	return &Artifact[T]{
		Codes:   codes,
		Bits:    bits,
		Payload: slices.Clone(src[:nbytes]),
	}, src[nbytes:], nil
}

// AppendBitstream appends the reduced container form:
// the exact bit count followed by the packed payload,
// with no code table. It serves callers that exchange
// the code table out of band.
func AppendBitstream(dst []byte, bits uint64, payload []byte) []byte {
	dst = binary.BigEndian.AppendUint64(dst, bits)
	return append(dst, payload...)
}

// ReadBitstream parses the reduced container form and
// returns the bit count, the payload, and any
// remaining bytes.
func ReadBitstream(src []byte) (uint64, []byte, []byte, error) {
	if len(src) < 8 {
		return 0, nil, nil, fmt.Errorf("%w: %d bytes reading bit count", ErrMalformed, len(src))
	}
	bits := binary.BigEndian.Uint64(src)
	src = src[8:]
	if bits > uint64(len(src))*8 {
		return 0, nil, nil, fmt.Errorf("%w: %d bytes for a %d-bit payload", ErrMalformed, len(src), bits)
	}
	nbytes := int((bits + 7) / 8)
	return bits, src[:nbytes], src[nbytes:], nil
}
