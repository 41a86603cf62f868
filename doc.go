// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*

Package pamu implements a persistent allocator: it manages a single
seekable byte medium (a file or raw block device) as an allocation
arena and exposes a malloc/free style interface whose returned
addresses are byte offsets into that medium. A client stores
application data at those offsets using ordinary positioned reads and
writes; pamu owns only the bookkeeping interleaved between those
regions.

Medium

A medium is a flat byte sequence: an 8 byte header followed by a
sequence of blocks tiled end to end, with no gaps and no overlaps, from
the first byte after the header to the current medium length.

Blocks

Every block, free or allocated, shares the same frame:

	[ leading MARKER ][ body of INNER_SIZE bytes ][ trailing MARKER ]

MARKER is an 8 byte big-endian unsigned integer. Its top bit is the
FREE flag; the remaining bits hold INNER_SIZE. The leading and trailing
markers of a block are always byte-identical - this is what lets a
reader walk the medium backwards as well as forwards.

The body of a FREE block begins with two 8 byte big-endian POINTERs -
previous-free and next-free outer offsets - threading a doubly linked
free list through the medium in ascending offset order. A FREE block's
INNER_SIZE is therefore never smaller than 16 bytes; smaller
allocation requests are rounded up to keep that uniform. The body of an
ALLOCATED block is entirely client-controlled opaque bytes; pamu never
reads or interprets it.

Addressing

Two coordinate systems are used throughout the package. An OUTER
address is the offset of a block's leading marker, used for all
internal navigation. An INNER address is outer + 8 (sizeof MARKER),
pointing at the first body byte; it is the value Allocate returns and
Free/Size/Next consume.

Dynamic media

A medium initialized with the DYNAMIC flag grows at the tail on
Allocate when no existing free block fits, and shrinks by truncation
whenever Free leaves a free block at the tail. A static (non-dynamic)
medium never changes length; Init requires it be large enough to hold
the header plus one minimum-sized block up front, and Allocate fails
with ErrMediumFull once the existing free space is exhausted.

No compaction, no concurrency control

Addresses are stable for the life of an allocation - pamu never moves
live data to compact free space, and never offers size classes or
buddy splits beyond a single first-fit split per Allocate. An Allocator
is not safe for concurrent use by multiple goroutines; callers
serialize access to a given medium themselves. pamu is not
crash-consistent: if a call returns an error mid-mutation, the only
safe recovery is to discard the medium.

*/
package pamu
