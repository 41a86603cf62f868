// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The Allocator type and its four core operations: Init, Allocate,
// Free and Size. Grounded on lldb.Allocator's Alloc/Free/Realloc
// trio, reshaped around PAMU's single un-bucketed free list and its
// explicit outer/inner addressing split.

package pamu

import "github.com/cznic/mathutil"

// Addr is an INNER address: the offset of the first body byte of a
// block, as returned by Allocate and consumed by Free, Size and Next.
// The zero Addr never denotes a live block.
type Addr int64

// NoAddr is the sentinel Addr returned alongside an error, and the
// value Next returns once iteration is exhausted.
const NoAddr Addr = 0

// minBodySize is the smallest INNER_SIZE a FREE block can have: room
// for its previous-free and next-free POINTER fields. Allocate rounds
// every request up to at least this size so the block can always
// rejoin the free list intact once freed.
const minBodySize = 2 * pointerSize

// splitThreshold is the smallest amount of leftover space, after
// carving a block out of a larger free one, worth turning back into
// its own free block (a block's two MARKERs plus minBodySize). Below
// it the whole free block is handed out instead of split.
const splitThreshold = 2*markerSize + minBodySize

// Allocator manages a PAMU medium's block layout: carving, freeing and
// coalescing blocks, without caching any of the medium's content
// between calls.
type Allocator struct {
	m Medium
}

// NewAllocator returns an Allocator operating on m. m must already
// have been initialized with Init, or be about to be.
func NewAllocator(m Medium) *Allocator {
	return &Allocator{m: m}
}

func (a *Allocator) readFull(buf []byte, off int64) error {
	n, err := a.m.ReadAt(buf, off)
	if err != nil || n != len(buf) {
		return &OpError{Op: "read", Off: off, Err: ErrReadMalformed}
	}
	return nil
}

func (a *Allocator) writeFull(buf []byte, off int64) error {
	n, err := a.m.WriteAt(buf, off)
	if err != nil || n != len(buf) {
		return &OpError{Op: "write", Off: off, Err: ErrWrite}
	}
	return nil
}

// Init writes a fresh header. On a static medium it tiles everything
// past the header as a single free block; a DYNAMIC medium is
// truncated to just the header and holds no blocks. Init must be called exactly once on a given medium before any
// other operation; calling it again discards whatever blocks already
// exist.
func (a *Allocator) Init(flags Flags) error {
	medLen, err := a.m.Length()
	if err != nil {
		return &OpError{Op: "Init", Err: ErrSeek}
	}
	dynamic := flags&DYNAMIC != 0

	if dynamic {
		// A DYNAMIC medium starts out containing zero blocks
		// regardless of how large it already was; Allocate grows it
		// from here as needed.
		if err := a.m.Truncate(headerLength); err != nil {
			return &OpError{Op: "Init", Err: ErrWrite}
		}
		medLen = headerLength
	} else if medLen < headerLength+2*markerSize+minBodySize {
		return &OpError{Op: "Init", Err: ErrMediumSize}
	}

	if err := a.writeHeader(flags); err != nil {
		return err
	}

	body := medLen - headerLength - 2*markerSize
	if body < minBodySize {
		// Not enough room left over for even one free block; the
		// medium starts out fully tiled by nothing. A DYNAMIC medium
		// grows its first block in from a later Allocate.
		return nil
	}
	return a.linkFree(headerLength, body, 0, 0)
}

// Allocate carves a block of at least size bytes out of the free
// list, preferring the first free block large enough (first-fit), and
// returns its INNER address. If DYNAMIC and no free block fits, the
// medium grows by one new block at its tail.
func (a *Allocator) Allocate(size int64) (Addr, error) {
	if size <= 0 {
		return NoAddr, &OpError{Op: "Allocate", Err: ErrNegativeSize}
	}
	h, medLen, err := a.readHeader()
	if err != nil {
		return NoAddr, err
	}
	requested := mathutil.MaxInt64(size, minBodySize)

	off, found, prev, next, err := a.findFit(requested, medLen)
	if err != nil {
		return NoAddr, err
	}
	if found {
		actual, err := a.sizeAt(off)
		if err != nil {
			return NoAddr, err
		}
		remaining := actual - requested
		if remaining >= splitThreshold {
			tailOff := nextAdjacentOffset(off, requested)
			tailSize := remaining - 2*markerSize
			if err := a.linkFree(tailOff, tailSize, prev, next); err != nil {
				return NoAddr, err
			}
			if err := a.writeUsedMarkers(off, requested); err != nil {
				return NoAddr, err
			}
		} else {
			if err := a.unlinkFree(prev, next); err != nil {
				return NoAddr, err
			}
			if err := a.writeUsedMarkers(off, actual); err != nil {
				return NoAddr, err
			}
		}
		return Addr(off + markerSize), nil
	}

	if h.flags&DYNAMIC == 0 {
		return NoAddr, &OpError{Op: "Allocate", Arg: size, Err: ErrMediumFull}
	}
	growOff := medLen
	newLen := growOff + 2*markerSize + requested
	if err := a.m.Truncate(newLen); err != nil {
		return NoAddr, &OpError{Op: "Allocate", Off: growOff, Err: ErrWrite}
	}
	if err := a.writeUsedMarkers(growOff, requested); err != nil {
		return NoAddr, err
	}
	return Addr(growOff + markerSize), nil
}

// Free returns the block at addr to the free list, coalescing it with
// an immediately adjacent free predecessor and/or successor, and - on
// a DYNAMIC medium - truncating the medium if the resulting free block
// now sits at the very end.
func (a *Allocator) Free(addr Addr) error {
	off := int64(addr) - markerSize
	h, medLen, err := a.readHeader()
	if err != nil {
		return err
	}
	if off < headerLength || off+markerSize >= medLen {
		return &OpError{Op: "Free", Off: off, Err: ErrOutOfBounds}
	}
	size, free, err := a.readBlockHeader(off)
	if err != nil {
		return err
	}
	if free {
		return &OpError{Op: "Free", Off: off, Err: ErrDoubleFree}
	}
	if err := a.trailerCheck(off, size); err != nil {
		return err
	}

	leftOff, err := a.nearestFreePredecessor(off)
	if err != nil {
		return err
	}
	rightOff, err := a.nearestFreeSuccessor(off, size, medLen)
	if err != nil {
		return err
	}

	mergedOff, mergedSize := off, size
	var listPrev, listNext int64

	if leftOff != 0 {
		leftSize, err := a.sizeAt(leftOff)
		if err != nil {
			return err
		}
		leftPrev, _, err := a.readFreeLinks(leftOff)
		if err != nil {
			return err
		}
		if nextAdjacentOffset(leftOff, leftSize) == off {
			mergedOff = leftOff
			mergedSize = leftSize + 2*markerSize + mergedSize
			listPrev = leftPrev
		} else {
			listPrev = leftOff
		}
	}
	if rightOff != 0 {
		rightSize, err := a.sizeAt(rightOff)
		if err != nil {
			return err
		}
		_, rightNext, err := a.readFreeLinks(rightOff)
		if err != nil {
			return err
		}
		if nextAdjacentOffset(mergedOff, mergedSize) == rightOff {
			mergedSize = mergedSize + 2*markerSize + rightSize
			listNext = rightNext
		} else {
			listNext = rightOff
		}
	}

	if err := a.linkFree(mergedOff, mergedSize, listPrev, listNext); err != nil {
		return err
	}

	if h.flags&DYNAMIC != 0 && nextAdjacentOffset(mergedOff, mergedSize) == medLen {
		if err := a.unlinkFree(listPrev, listNext); err != nil {
			return err
		}
		if err := a.m.Truncate(mergedOff); err != nil {
			return &OpError{Op: "Free", Off: mergedOff, Err: ErrWrite}
		}
	}
	return nil
}

// Size returns the INNER_SIZE - the number of bytes available to the
// caller - of the allocated block at addr.
func (a *Allocator) Size(addr Addr) (int64, error) {
	off := int64(addr) - markerSize
	_, medLen, err := a.readHeader()
	if err != nil {
		return 0, err
	}
	if off < headerLength || off+markerSize >= medLen {
		return 0, &OpError{Op: "Size", Off: off, Err: ErrOutOfBounds}
	}
	size, free, err := a.readBlockHeader(off)
	if err != nil {
		return 0, err
	}
	if free {
		return 0, &OpError{Op: "Size", Off: off, Err: ErrInvalidAddress}
	}
	// Unlike Free and Next, Size does not validate the trailer: a
	// corrupted trailing marker still leaves the leading marker's
	// INNER_SIZE authoritative for this call.
	return size, nil
}
