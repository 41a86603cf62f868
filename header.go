// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The fixed 8 byte medium header: magic, feature flags and header
// length, packed as described in spec.md §3/§6.

package pamu

import "encoding/binary"

const (
	headerLength = 8
	magic        = "PAMU"

	// headerLengthMask is the low byte of MERGED, holding the header
	// length in bytes. Every other bit is available to feature flags;
	// only DYNAMIC (the top bit) is currently defined. Unknown flag
	// bits must round-trip unmodified through Init.
	headerLengthMask = 0xFF
)

// Flags are the feature-flag bits packed into the top of MERGED.
type Flags uint32

// DYNAMIC permits a medium to grow on Allocate and shrink (by
// truncation) on Free of a tail block. It is the only flag this
// package interprets; any other flag bit above the low header-length
// byte is preserved on write but otherwise ignored. Bits set in that
// low byte are OR'd into the stored header length.
const DYNAMIC Flags = 1 << 31

func encodeMerged(flags Flags, headerLen uint32) uint32 {
	return uint32(flags) | (headerLen & headerLengthMask)
}

func decodeMerged(merged uint32) (flags Flags, headerLen uint32) {
	return Flags(merged &^ headerLengthMask), merged & headerLengthMask
}

// header is the decoded content of a medium's fixed 8 byte prefix.
type header struct {
	flags     Flags
	headerLen uint32
}

// readHeader re-reads the medium's header and current length. It is
// called at the start of every public operation - pamu caches nothing
// between calls, the medium is the source of truth.
func (a *Allocator) readHeader() (h header, medLen int64, err error) {
	var buf [headerLength]byte
	if err = a.readFull(buf[:], 0); err != nil {
		return header{}, 0, err
	}
	if string(buf[:4]) != magic {
		return header{}, 0, &OpError{Op: "readHeader", Err: ErrMediumUninitialized}
	}
	merged := binary.BigEndian.Uint32(buf[4:8])
	h.flags, h.headerLen = decodeMerged(merged)
	medLen, err = a.m.Length()
	if err != nil {
		return header{}, 0, &OpError{Op: "readHeader", Err: ErrSeek}
	}
	return h, medLen, nil
}

// writeHeader writes the fixed header at offset 0, used only by Init.
func (a *Allocator) writeHeader(flags Flags) error {
	var buf [headerLength]byte
	copy(buf[:4], magic)
	binary.BigEndian.PutUint32(buf[4:8], encodeMerged(flags, headerLength))
	return a.writeFull(buf[:], 0)
}
