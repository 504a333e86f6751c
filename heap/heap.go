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

// Package heap implements generic min-heap
// operations on ordinary slices.
package heap

// Init orders x in place so that it satisfies
// the min-heap invariant determined by less.
// After Init, x[0] is the "smallest" element of x.
func Init[T any](x []T, less func(a, b T) bool) {
	for i := len(x)/2 - 1; i >= 0; i-- {
		down(x, i, less)
	}
}

// Push appends item to *x while preserving
// the min-heap invariant determined by less.
func Push[T any](x *[]T, item T, less func(a, b T) bool) {
	*x = append(*x, item)
	up(*x, len(*x)-1, less)
}

// Pop removes the "smallest" element from *x
// based on less and updates *x appropriately
// to preserve the heap invariant.
func Pop[T any](x *[]T, less func(a, b T) bool) T {
	s := *x
	min := s[0]
	last := len(s) - 1
	s[0] = s[last]
	*x = s[:last]
	if last > 0 {
		down(*x, 0, less)
	}
	return min
}

func up[T any](x []T, i int, less func(a, b T) bool) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(x[i], x[parent]) {
			return
		}
		x[i], x[parent] = x[parent], x[i]
		i = parent
	}
}

func down[T any](x []T, i int, less func(a, b T) bool) {
	for {
		child := 2*i + 1
		if child >= len(x) {
			return
		}
		if r := child + 1; r < len(x) && less(x[r], x[child]) {
			child = r
		}
		if !less(x[child], x[i]) {
			return
		}
		x[i], x[child] = x[child], x[i]
		i = child
	}
}
