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
	"maps"
	"math/rand"
	"strings"
	"testing"
)

func TestCount(t *testing.T) {
	got := Count([]byte("aaaabbbccd"))
	want := map[byte]int{'a': 4, 'b': 3, 'c': 2, 'd': 1}
	if !maps.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if n := len(Count([]byte(nil))); n != 0 {
		t.Fatalf("empty input counted %d symbols", n)
	}
}

// prefixFree reports whether no code in the table
// is a prefix of another.
func prefixFree[T Symbol](codes map[T]string) bool {
	for a, ca := range codes {
		for b, cb := range codes {
			if a != b && strings.HasPrefix(cb, ca) {
				return false
			}
		}
	}
	return true
}

func TestPrefixFree(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 50; trial++ {
		freqs := make(map[byte]int)
		for n := rng.Intn(200) + 2; len(freqs) < n; {
			freqs[byte(rng.Intn(256))] = rng.Intn(10000) + 1
		}
		codes := Codes(freqs)
		if len(codes) != len(freqs) {
			t.Fatalf("%d codes for %d symbols", len(codes), len(freqs))
		}
		for s, code := range codes {
			if code == "" {
				t.Fatalf("empty code for %#x", s)
			}
		}
		if !prefixFree(codes) {
			t.Fatalf("codes are not prefix-free: %v", codes)
		}
	}
}

func TestTieBreak(t *testing.T) {
	// with all weights equal, every merge is decided
	// by the stable FIFO policy: leaves seeded in
	// ascending symbol order, merged nodes after
	codes := Codes(map[byte]int{'a': 1, 'b': 1, 'c': 1, 'd': 1})
	want := map[byte]string{'a': "00", 'b': "01", 'c': "10", 'd': "11"}
	if !maps.Equal(codes, want) {
		t.Fatalf("got %v, want %v", codes, want)
	}
	// and the result never depends on map iteration order
	for i := 0; i < 20; i++ {
		if again := Codes(map[byte]int{'a': 1, 'b': 1, 'c': 1, 'd': 1}); !maps.Equal(again, codes) {
			t.Fatalf("run %d produced %v", i, again)
		}
	}
}

func TestCodesDegenerate(t *testing.T) {
	if got := Codes(map[byte]int{'q': 41}); len(got) != 1 || got['q'] != "0" {
		t.Fatalf("single-symbol codes = %v", got)
	}
	if got := Codes(map[byte]int(nil)); got != nil {
		t.Fatalf("empty table produced codes %v", got)
	}
}

func TestRebuildMatches(t *testing.T) {
	// a tree rebuilt from the code table alone must
	// reproduce the leaf/path structure exactly
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		freqs := make(map[uint16]int)
		for n := rng.Intn(300) + 2; len(freqs) < n; {
			freqs[uint16(rng.Intn(1<<16))] = rng.Intn(500) + 1
		}
		codes := Codes(freqs)
		root, err := rebuild(codes)
		if err != nil {
			t.Fatalf("rebuild: %v", err)
		}
		derived := make(map[uint16]string, len(codes))
		root.walk(nil, derived)
		if !maps.Equal(derived, codes) {
			t.Fatal("rebuilt tree derives a different code table")
		}
	}
}

func TestWeightOrdering(t *testing.T) {
	// a strictly heavier symbol never gets a longer code
	freqs := map[byte]int{}
	for i := 0; i < 30; i++ {
		freqs[byte(i)] = 1 << i
	}
	codes := Codes(freqs)
	for a, fa := range freqs {
		for b, fb := range freqs {
			if fa > fb && len(codes[a]) > len(codes[b]) {
				t.Errorf("weight %d got %d-bit code but weight %d got %d bits",
					fa, len(codes[a]), fb, len(codes[b]))
			}
		}
	}
}
