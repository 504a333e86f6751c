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

// bitWriter packs a logical bit sequence into bytes,
// most-significant bit first. Bits accumulate in cur
// from the high end; full bytes are appended to buf.
type bitWriter struct {
	buf   []byte
	total uint64
	cur   byte
	nbits uint
}

func (w *bitWriter) writeBit(one bool) {
	if one {
		w.cur |= 0x80 >> w.nbits
	}
	w.nbits++
	w.total++
	if w.nbits == 8 {
		w.buf = append(w.buf, w.cur)
		w.cur = 0
		w.nbits = 0
	}
}

// writeString appends one bit per byte of code,
// which must consist of '0' and '1' characters.
func (w *bitWriter) writeString(code string) {
	for i := 0; i < len(code); i++ {
		w.writeBit(code[i] == '1')
	}
}

// finish flushes any partial final byte and returns
// the packed buffer. The unused low-order bits of the
// final byte are zero; only the writer's bit total
// distinguishes them from real data.
func (w *bitWriter) finish() []byte {
	if w.nbits > 0 {
		w.buf = append(w.buf, w.cur)
		w.cur = 0
		w.nbits = 0
	}
	return w.buf
}

// packString packs a single '0'/'1' string into a
// fresh byte buffer using the same layout as the
// payload stream.
func packString(code string) []byte {
	var w bitWriter
	w.writeString(code)
	return w.finish()
}

// unpackString is the inverse of packString for a
// known bit count.
func unpackString(buf []byte, nbits int) string {
	out := make([]byte, nbits)
	for i := range out {
		if buf[i>>3]&(0x80>>(i&7)) != 0 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}
