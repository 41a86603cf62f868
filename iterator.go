// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Forward iteration over a medium's allocated blocks in adjacency
// order, skipping free ones. There is no persisted cursor; each call
// recomputes its position from addr.

package pamu

// Next returns the INNER address of the first ALLOCATED block
// strictly after addr, in medium order, skipping over any FREE blocks
// in between. Passing NoAddr starts iteration from the beginning of
// the tiled region. Next returns NoAddr once there is no further
// allocated block.
func (a *Allocator) Next(addr Addr) (Addr, error) {
	_, medLen, err := a.readHeader()
	if err != nil {
		return NoAddr, err
	}

	var cur int64
	if addr == NoAddr {
		cur = headerLength
	} else {
		off := int64(addr) - markerSize
		size, free, err := a.readBlockHeader(off)
		if err != nil {
			return NoAddr, err
		}
		if free {
			return NoAddr, &OpError{Op: "Next", Off: off, Err: ErrInvalidAddress}
		}
		if err := a.trailerCheck(off, size); err != nil {
			return NoAddr, err
		}
		cur = nextAdjacentOffset(off, size)
	}

	for cur < medLen {
		size, free, err := a.readBlockHeader(cur)
		if err != nil {
			return NoAddr, err
		}
		if !free {
			return Addr(cur + markerSize), nil
		}
		cur = nextAdjacentOffset(cur, size)
	}
	return NoAddr, nil
}
