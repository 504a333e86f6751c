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
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/huffpack/huffpack/heap"
)

// node is one vertex of a code tree. Leaves carry a
// symbol and no children; internal nodes carry both
// children and no symbol. The path from the root to
// a leaf, 0 per left edge and 1 per right edge, is
// the leaf's code.
type node[T Symbol] struct {
	left, right *node[T]
	weight      int
	seq         int
	sym         T
	hasSym      bool
}

func (n *node[T]) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// Codes derives the code table for a non-empty
// frequency map: a prefix-free assignment of bit
// strings to symbols such that more frequent symbols
// never receive longer codes than less frequent ones.
//
// The result is deterministic. Leaves are seeded into
// the merge queue in ascending symbol order and every
// node carries a sequence number; ties on weight are
// broken by the lower sequence number, so equal-weight
// nodes leave the queue in insertion order.
//
// An alphabet of exactly one symbol has no meaningful
// tree; the symbol is assigned the fixed code "0".
func Codes[T Symbol](freqs map[T]int) map[T]string {
	syms := maps.Keys(freqs)
	if len(syms) == 0 {
		return nil
	}
	slices.Sort(syms)
	if len(syms) == 1 {
		return map[T]string{syms[0]: "0"}
	}
	nodes := make([]*node[T], len(syms))
	for i, s := range syms {
		nodes[i] = &node[T]{weight: freqs[s], seq: i, sym: s, hasSym: true}
	}
	less := func(a, b *node[T]) bool {
		if a.weight != b.weight {
			return a.weight < b.weight
		}
		return a.seq < b.seq
	}
	heap.Init(nodes, less)
	seq := len(nodes)
	for len(nodes) > 1 {
		left := heap.Pop(&nodes, less)
		right := heap.Pop(&nodes, less)
		heap.Push(&nodes, &node[T]{
			left:   left,
			right:  right,
			weight: left.weight + right.weight,
			seq:    seq,
		}, less)
		seq++
	}
	out := make(map[T]string, len(syms))
	var path []byte
	nodes[0].walk(path, out)
	return out
}

// walk records the root-to-leaf path of every leaf
// under n into out. Recursion depth is bounded by the
// alphabet size, not the input length.
func (n *node[T]) walk(path []byte, out map[T]string) {
	if n.isLeaf() {
		out[n.sym] = string(path)
		return
	}
	n.left.walk(append(path, '0'), out)
	n.right.walk(append(path, '1'), out)
}

// rebuild reconstructs a code tree from a code table
// alone, with no frequency information: each code is
// walked from the root, interior nodes are created on
// demand, and the symbol becomes a leaf at the final
// position. A table produced by Codes always succeeds;
// an externally supplied table fails with ErrMalformed
// if any code is empty, is a prefix of another, or
// leaves an interior node with a single child.
func rebuild[T Symbol](codes map[T]string) (*node[T], error) {
	root := &node[T]{}
	for sym, code := range codes {
		if code == "" {
			return nil, fmt.Errorf("%w: empty code", ErrMalformed)
		}
		n := root
		for i := 0; i < len(code); i++ {
			if n.hasSym {
				return nil, fmt.Errorf("%w: code %q extends another code", ErrMalformed, code)
			}
			switch code[i] {
			case '0':
				if n.left == nil {
					n.left = &node[T]{}
				}
				n = n.left
			case '1':
				if n.right == nil {
					n.right = &node[T]{}
				}
				n = n.right
			default:
				return nil, fmt.Errorf("%w: code byte %#x", ErrMalformed, code[i])
			}
		}
		if n.hasSym || !n.isLeaf() {
			return nil, fmt.Errorf("%w: code %q conflicts with another code", ErrMalformed, code)
		}
		n.sym = sym
		n.hasSym = true
	}
	if err := root.complete(); err != nil {
		return nil, err
	}
	return root, nil
}

// complete verifies that every interior node has both
// children, i.e. that every possible bit path ends at
// a leaf. The decoder relies on this so that a walk
// can never step off the tree.
func (n *node[T]) complete() error {
	if n.isLeaf() {
		return nil
	}
	if n.left == nil || n.right == nil {
		return fmt.Errorf("%w: interior node with a single child", ErrMalformed)
	}
	if err := n.left.complete(); err != nil {
		return err
	}
	return n.right.complete()
}
