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

package compr

import (
	"encoding/binary"
	"errors"

	"github.com/dchest/siphash"
)

// ErrChecksum is returned by a checked Decoder when
// the blob's digest does not match its contents.
var ErrChecksum = errors.New("compr: checksum mismatch")

// fixed siphash-2-4 keys; the digest detects
// corruption, it is not an authenticator
const (
	sipK0      = 0x6866667570616b63
	sipK1      = 0x636f6e7461696e72
	sipTrailer = 8
)

// Checked wraps enc so that every blob carries an
// 8-byte little-endian siphash-2-4 digest of the
// encoded bytes. Decode the result with the Decoder
// from CheckedDecoder.
func Checked(enc Encoder) Encoder {
	return checkedEncoder{enc}
}

// CheckedDecoder wraps dec so that it verifies and
// strips the digest appended by Checked before
// decoding; a mismatch fails with ErrChecksum.
func CheckedDecoder(dec Decoder) Decoder {
	return checkedDecoder{dec}
}

type checkedEncoder struct {
	inner Encoder
}

func (c checkedEncoder) Name() string { return c.inner.Name() }

func (c checkedEncoder) Encode(dst, src []byte) ([]byte, error) {
	base := len(dst)
	dst, err := c.inner.Encode(dst, src)
	if err != nil {
		return nil, err
	}
	sum := siphash.Hash(sipK0, sipK1, dst[base:])
	return binary.LittleEndian.AppendUint64(dst, sum), nil
}

type checkedDecoder struct {
	inner Decoder
}

func (c checkedDecoder) Name() string { return c.inner.Name() }

func (c checkedDecoder) Decode(dst, src []byte) ([]byte, error) {
	if len(src) < sipTrailer {
		return nil, ErrChecksum
	}
	body := src[:len(src)-sipTrailer]
	want := binary.LittleEndian.Uint64(src[len(src)-sipTrailer:])
	if siphash.Hash(sipK0, sipK1, body) != want {
		return nil, ErrChecksum
	}
	return c.inner.Decode(dst, body)
}
