// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Navigation of the doubly linked free list threaded through the
// medium. Unlike lldb's flt, which buckets free blocks into several
// size-keyed lists each with its own persisted head pointer, PAMU
// keeps exactly one list (spec.md §3: "forming a doubly-linked list
// threaded through free blocks in medium order"). The 8 byte header
// has no room for - and the spec never defines - a persisted head
// pointer, so the head is instead whatever the lowest-offset FREE
// block happens to be, found the same way lldb's own free-block finder
// bootstraps: an adjacency walk from the first tiled block. Once that
// first FREE block is found, every further candidate is reached by a
// pure next-free hop - only the initial search is O(distance).

package pamu

// firstFreeBlock returns the outer offset of the lowest-offset FREE
// block in the medium (the free list's head), found by walking blocks
// in adjacency order starting at header_length. found is false if the
// list is empty.
func (a *Allocator) firstFreeBlock(medLen int64) (off int64, found bool, err error) {
	cur := int64(headerLength)
	for cur < medLen {
		size, free, err := a.readBlockHeader(cur)
		if err != nil {
			return 0, false, err
		}
		if free {
			return cur, true, nil
		}
		cur = nextAdjacentOffset(cur, size)
	}
	return 0, false, nil
}

// findFit walks the free list from its head and returns the first
// block whose INNER_SIZE is at least requested (first-fit), along
// with that block's own previous-free/next-free pointers so callers
// don't need a second read to unlink or replace it.
func (a *Allocator) findFit(requested, medLen int64) (off int64, found bool, prev, next int64, err error) {
	off, found, err = a.firstFreeBlock(medLen)
	if err != nil || !found {
		return 0, false, 0, 0, err
	}
	for {
		size, err := a.sizeAt(off)
		if err != nil {
			return 0, false, 0, 0, err
		}
		p, n, err := a.readFreeLinks(off)
		if err != nil {
			return 0, false, 0, 0, err
		}
		if size >= requested {
			return off, true, p, n, nil
		}
		if n == 0 {
			return 0, false, 0, 0, nil
		}
		off = n
	}
}

// nearestFreePredecessor walks backward by adjacency from off,
// stopping at the first FREE block or at header_length, whichever
// comes first. It returns 0 if none is found - it does not consult
// the free list's own pointers, per spec.md §4.4 step 2.
func (a *Allocator) nearestFreePredecessor(off int64) (int64, error) {
	cur := off
	for cur > headerLength {
		prevOff, err := a.previousAdjacentOffset(cur)
		if err != nil {
			return 0, err
		}
		_, free, err := a.readBlockHeader(prevOff)
		if err != nil {
			return 0, err
		}
		if free {
			return prevOff, nil
		}
		cur = prevOff
	}
	return 0, nil
}

// nearestFreeSuccessor walks forward by adjacency from the block at
// off (whose INNER_SIZE is size), stopping at the first FREE block or
// at medium_length, whichever comes first.
func (a *Allocator) nearestFreeSuccessor(off, size, medLen int64) (int64, error) {
	cur := nextAdjacentOffset(off, size)
	for cur < medLen {
		s, free, err := a.readBlockHeader(cur)
		if err != nil {
			return 0, err
		}
		if free {
			return cur, nil
		}
		cur = nextAdjacentOffset(cur, s)
	}
	return 0, nil
}
