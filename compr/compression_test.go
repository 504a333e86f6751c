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
	"bytes"
	"errors"
	"testing"

	"github.com/huffpack/huffpack/huffman"
)

func testRoundTrip(t *testing.T, name string, src []byte) {
	t.Helper()
	enc := Encoding(name)
	if enc == nil {
		t.Fatalf("no encoder for %q", name)
	}
	if enc.Name() != name {
		t.Fatalf("bad encoder name %q", enc.Name())
	}
	dec := Decoding(name)
	if dec == nil {
		t.Fatalf("no decoder for %q", name)
	}
	if dec.Name() != name {
		t.Fatalf("bad decoder name %q", dec.Name())
	}
	blob, err := enc.Encode(nil, src)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := dec.Decode(nil, blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Fatalf("%s did not round trip %d bytes", name, len(src))
	}
	// appending to a non-empty destination
	out, err = dec.Decode([]byte("prefix-"), blob)
	if err != nil {
		t.Fatalf("Decode with prefix: %v", err)
	}
	if !bytes.Equal(out, append([]byte("prefix-"), src...)) {
		t.Fatal("Decode clobbered the destination prefix")
	}
}

func TestEncodings(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("x"),
		[]byte("aaaabbbccd"),
		bytes.Repeat([]byte("the quick brown fox "), 100),
	}
	for _, name := range []string{"huffman", "zstd", "s2"} {
		t.Run(name, func(t *testing.T) {
			for _, src := range inputs {
				testRoundTrip(t, name, src)
			}
		})
	}
}

func TestUnknownName(t *testing.T) {
	if Encoding("lzw") != nil {
		t.Error("expected nil encoder for unknown name")
	}
	if Decoding("lzw") != nil {
		t.Error("expected nil decoder for unknown name")
	}
}

func TestHuffmanTrailing(t *testing.T) {
	enc := Encoding("huffman")
	blob, err := enc.Encode(nil, []byte("hello hello"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decoding("huffman").Decode(nil, append(blob, 0xff))
	if !errors.Is(err, huffman.ErrMalformed) {
		t.Fatalf("got %v; want ErrMalformed", err)
	}
}

func TestChecked(t *testing.T) {
	src := []byte("integrity matters sometimes")
	enc := Checked(Encoding("huffman"))
	dec := CheckedDecoder(Decoding("huffman"))
	if enc.Name() != "huffman" || dec.Name() != "huffman" {
		t.Fatal("checked wrappers must keep the inner name")
	}
	blob, err := enc.Encode(nil, src)
	if err != nil {
		t.Fatal(err)
	}
	out, err := dec.Decode(nil, blob)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, src) {
		t.Fatal("checked blob did not round trip")
	}
	// flip one bit anywhere and the digest must catch it
	for _, i := range []int{0, len(blob) / 2, len(blob) - 1} {
		bad := bytes.Clone(blob)
		bad[i] ^= 0x10
		if _, err := dec.Decode(nil, bad); !errors.Is(err, ErrChecksum) {
			t.Errorf("corrupt byte %d: got %v; want ErrChecksum", i, err)
		}
	}
	if _, err := dec.Decode(nil, blob[:4]); !errors.Is(err, ErrChecksum) {
		t.Errorf("short blob: got %v; want ErrChecksum", err)
	}
}
