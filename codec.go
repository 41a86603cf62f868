// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fixed big-endian encode/decode of the two width-parameterized
// integer types found on the medium: MARKER and POINTER. Both are
// fixed at 8 bytes for this build; widening either requires a
// format-version bump, it is not a per-medium runtime choice.

package pamu

import "encoding/binary"

const (
	markerSize  = 8
	pointerSize = 8

	// freeBit is MARKER's top bit, set when a block is FREE.
	freeBit = uint64(1) << 63

	// sizeMask covers every MARKER bit except freeBit.
	sizeMask = freeBit - 1
)

// markerValue packs size and the FREE flag into a raw MARKER value.
func markerValue(size int64, free bool) uint64 {
	v := uint64(size) & sizeMask
	if free {
		v |= freeBit
	}
	return v
}

// parseMarker unpacks a raw MARKER value into its INNER_SIZE and FREE flag.
func parseMarker(v uint64) (size int64, free bool) {
	return int64(v & sizeMask), v&freeBit != 0
}

func getMarker(b []byte) uint64 { return binary.BigEndian.Uint64(b) }
func putMarker(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }

func getPointer(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) }
func putPointer(b []byte, v int64) { binary.BigEndian.PutUint64(b, uint64(v)) }
