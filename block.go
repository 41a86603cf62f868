// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Reading a block's size/flags and navigating to its adjacent
// neighbors, given an outer offset - the start of its leading marker.
// Grounded on lldb.Allocator.nfo/leftNfo, simplified to PAMU's single
// marker-pair frame (lldb's nfo distinguishes five tag bytes; PAMU has
// exactly two block states, so a marker read is the whole story).

package pamu

import "bytes"

// readBlockHeader reads the leading marker at outer offset off and
// returns its INNER_SIZE and FREE flag.
func (a *Allocator) readBlockHeader(off int64) (size int64, free bool, err error) {
	var buf [markerSize]byte
	if err = a.readFull(buf[:], off); err != nil {
		return 0, false, err
	}
	size, free = parseMarker(getMarker(buf[:]))
	return size, free, nil
}

// sizeAt returns a block's INNER_SIZE, discarding the FREE flag.
func (a *Allocator) sizeAt(off int64) (int64, error) {
	size, _, err := a.readBlockHeader(off)
	return size, err
}

// nextAdjacentOffset returns the outer offset immediately following
// the block of the given size at off: off + size + 2*sizeof(MARKER).
func nextAdjacentOffset(off, size int64) int64 {
	return off + size + 2*markerSize
}

// previousAdjacentOffset returns the outer offset of the block
// immediately preceding off, by reading that neighbor's trailing
// marker (which sits at off - sizeof(MARKER)). Defined only when off
// is strictly past header_length.
func (a *Allocator) previousAdjacentOffset(off int64) (int64, error) {
	if off <= headerLength {
		return 0, &OpError{Op: "previousAdjacent", Off: off, Err: ErrOutOfBounds}
	}
	size, err := a.sizeAt(off - markerSize)
	if err != nil {
		return 0, err
	}
	return off - size - 2*markerSize, nil
}

// trailerCheck compares the trailing marker of the block at off
// (whose INNER_SIZE is size) against its leading marker. A mismatch
// indicates corruption or a misaligned address.
func (a *Allocator) trailerCheck(off, size int64) error {
	var lead, trail [markerSize]byte
	if err := a.readFull(lead[:], off); err != nil {
		return err
	}
	if err := a.readFull(trail[:], off+markerSize+size); err != nil {
		return err
	}
	if !bytes.Equal(lead[:], trail[:]) {
		return &OpError{Op: "trailerCheck", Off: off, Err: ErrInvalidAddress}
	}
	return nil
}

// readFreeLinks reads the previous-free/next-free POINTER pair from
// the body of the FREE block at off.
func (a *Allocator) readFreeLinks(off int64) (prev, next int64, err error) {
	var buf [2 * pointerSize]byte
	if err = a.readFull(buf[:], off+markerSize); err != nil {
		return 0, 0, err
	}
	return getPointer(buf[:pointerSize]), getPointer(buf[pointerSize:]), nil
}

// setPrev overwrites only the previous-free pointer of the FREE block at off.
func (a *Allocator) setPrev(off, prev int64) error {
	var buf [pointerSize]byte
	putPointer(buf[:], prev)
	return a.writeFull(buf[:], off+markerSize)
}

// setNext overwrites only the next-free pointer of the FREE block at off.
func (a *Allocator) setNext(off, next int64) error {
	var buf [pointerSize]byte
	putPointer(buf[:], next)
	return a.writeFull(buf[:], off+markerSize+pointerSize)
}

// writeUsedMarkers writes the leading and trailing markers of an
// ALLOCATED block of the given INNER_SIZE at off, with the FREE bit
// clear. It never touches the body - allocation content belongs to
// the caller.
func (a *Allocator) writeUsedMarkers(off, innerSize int64) error {
	var m [markerSize]byte
	putMarker(m[:], markerValue(innerSize, false))
	if err := a.writeFull(m[:], off); err != nil {
		return err
	}
	return a.writeFull(m[:], off+markerSize+innerSize)
}

// linkFree (re)writes a FREE block of the given INNER_SIZE at off with
// the supplied previous-free/next-free pointers, and patches the
// opposite pointer of each named neighbor to point back at off. It is
// the single primitive behind every free-list mutation: a fresh free
// block, a block replacing another at a new location (SPLIT), and a
// coalesced block replacing its constituents - mirroring the one
// makeFree helper lldb.Allocator uses for all of the same cases.
func (a *Allocator) linkFree(off, innerSize, prev, next int64) error {
	var lead [markerSize]byte
	putMarker(lead[:], markerValue(innerSize, true))
	if err := a.writeFull(lead[:], off); err != nil {
		return err
	}
	var body [2 * pointerSize]byte
	putPointer(body[:pointerSize], prev)
	putPointer(body[pointerSize:], next)
	if err := a.writeFull(body[:], off+markerSize); err != nil {
		return err
	}
	if err := a.writeFull(lead[:], off+markerSize+innerSize); err != nil {
		return err
	}
	if prev != 0 {
		if err := a.setNext(prev, off); err != nil {
			return err
		}
	}
	if next != 0 {
		if err := a.setPrev(next, off); err != nil {
			return err
		}
	}
	return nil
}

// unlinkFree removes a FREE block whose own links are prev and next
// from the list without replacing it with anything, patching
// prev's next-free and next's previous-free to skip over it.
func (a *Allocator) unlinkFree(prev, next int64) error {
	if prev != 0 {
		if err := a.setNext(prev, next); err != nil {
			return err
		}
	}
	if next != 0 {
		if err := a.setPrev(next, prev); err != nil {
			return err
		}
	}
	return nil
}
