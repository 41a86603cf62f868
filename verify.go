// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// A multi-phase consistency scan of a medium, grounded on
// lldb.Allocator.Verify: walk the tiling once collecting stats and
// checking markers, walk the free list once checking it only visits
// free blocks in ascending order, then reconcile the two walks
// against each other.

package pamu

import "fmt"

// Report summarizes one Verify pass.
type Report struct {
	TotalBlocks int64
	AllocBlocks int64
	FreeBlocks  int64
	AllocBytes  int64
	FreeBytes   int64
}

// Verify scans the entire medium for consistency. onProblem is called
// once per problem found; if it returns false, Verify stops early and
// returns the report as it stands. A nil onProblem stops at the first
// problem, matching lldb.Allocator.Verify's default when log is nil.
func (a *Allocator) Verify(onProblem func(error) bool) (*Report, error) {
	if onProblem == nil {
		onProblem = func(error) bool { return false }
	}

	h, medLen, err := a.readHeader()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if h.headerLen != headerLength {
		if !onProblem(&OpError{Op: "Verify", Arg: int64(h.headerLen), Err: fmt.Errorf("pamu: header length is not %d", headerLength)}) {
			return report, nil
		}
	}
	tiledFree := make(map[int64]int64) // offset -> INNER_SIZE, by adjacency walk

	// Phase 1: walk adjacency, verifying every block's trailer matches
	// its leading marker and that no two FREE blocks sit back to back
	// (invariant: adjacent free blocks must have been coalesced).
	cur := int64(headerLength)
	prevWasFree := false
	lastBlockOff := int64(-1)
	lastBlockFree := false
	for cur < medLen {
		size, free, err := a.readBlockHeader(cur)
		if err != nil {
			return report, err
		}
		if cur+2*markerSize+size > medLen {
			// The block's own size can't be trusted past this point -
			// there is no reliable next_adjacent to resume from, so
			// the tiling walk must stop here regardless of what
			// onProblem asks for.
			if !onProblem(&OpError{Op: "Verify", Off: cur, Err: ErrOutOfBounds}) {
				return report, nil
			}
			break
		}
		if err := a.trailerCheck(cur, size); err != nil {
			if !onProblem(err) {
				return report, nil
			}
		}
		if free && size < minBodySize {
			if !onProblem(&OpError{Op: "Verify", Off: cur, Arg: size, Err: fmt.Errorf("pamu: free block too small for its free-list pointers")}) {
				return report, nil
			}
		}
		if free && prevWasFree {
			if !onProblem(&OpError{Op: "Verify", Off: cur, Err: fmt.Errorf("pamu: adjacent free blocks were not coalesced")}) {
				return report, nil
			}
		}

		report.TotalBlocks++
		if free {
			report.FreeBlocks++
			report.FreeBytes += size
			tiledFree[cur] = size
		} else {
			report.AllocBlocks++
			report.AllocBytes += size
		}
		prevWasFree = free
		lastBlockOff = cur
		lastBlockFree = free
		cur = nextAdjacentOffset(cur, size)
	}

	// Phase 2: walk the free list itself, checking it visits exactly
	// the free blocks phase 1 found, in strictly ascending order, and
	// that its own prev/next pointers are mutually consistent.
	listed := make(map[int64]bool)
	off, found, err := a.firstFreeBlock(medLen)
	if err != nil {
		return report, err
	}
	if found {
		last := int64(-1)
		linkPrev := int64(0)
		for {
			if _, ok := tiledFree[off]; !ok {
				if !onProblem(&OpError{Op: "Verify", Off: off, Err: fmt.Errorf("pamu: free list references a non-free or out-of-bounds block")}) {
					return report, nil
				}
			}
			if off <= last {
				cont := onProblem(&OpError{Op: "Verify", Off: off, Err: fmt.Errorf("pamu: free list is not in ascending offset order")})
				if listed[off] {
					// A strictly ascending walk can't revisit an
					// offset unless the next-free chain cycles back
					// on itself; stop here instead of looping
					// forever regardless of what onProblem answers.
					break
				}
				if !cont {
					return report, nil
				}
			}
			last = off
			listed[off] = true

			linkedPrev, next, err := a.readFreeLinks(off)
			if err != nil {
				return report, err
			}
			if linkedPrev != linkPrev {
				if !onProblem(&OpError{Op: "Verify", Off: off, Err: fmt.Errorf("pamu: free block's previous-free pointer disagrees with its predecessor")}) {
					return report, nil
				}
			}
			if next == 0 {
				break
			}
			linkPrev = off
			off = next
		}
	}

	// Phase 3: every FREE block the tiling pass found must appear in
	// the free list; a free block the list never reaches is a lost
	// block - allocatable space that has become permanently
	// unreachable.
	for off := range tiledFree {
		if !listed[off] {
			if !onProblem(&OpError{Op: "Verify", Off: off, Err: fmt.Errorf("pamu: free block is not reachable from the free list")}) {
				return report, nil
			}
		}
	}

	// Phase 4: on a DYNAMIC medium, the tail must never be a free
	// block - Free always truncates a trailing free block away.
	if h.flags&DYNAMIC != 0 && lastBlockOff >= 0 && lastBlockFree {
		if !onProblem(&OpError{Op: "Verify", Off: lastBlockOff, Err: fmt.Errorf("pamu: dynamic medium ends in a free block that was never truncated")}) {
			return report, nil
		}
	}

	return report, nil
}
