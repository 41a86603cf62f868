// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamu

import "testing"

func TestMarkerRoundtrip(t *testing.T) {
	cases := []struct {
		size int64
		free bool
	}{
		{0, false},
		{16, true},
		{1, false},
		{sizeMask, true},
		{1 << 40, false},
	}
	for _, c := range cases {
		v := markerValue(c.size, c.free)
		gotSize, gotFree := parseMarker(v)
		if gotSize != c.size || gotFree != c.free {
			t.Errorf("markerValue(%d,%v) roundtrip = (%d,%v)", c.size, c.free, gotSize, gotFree)
		}
	}
}

func TestMarkerFreeBitIsTopBit(t *testing.T) {
	v := markerValue(0, true)
	if v&freeBit == 0 {
		t.Fatal("FREE bit not set")
	}
	if v&sizeMask != 0 {
		t.Fatal("size bits polluted by FREE flag")
	}
}

func TestPointerRoundtrip(t *testing.T) {
	var buf [pointerSize]byte
	for _, v := range []int64{0, 1, -1, 1 << 62, headerLength} {
		putPointer(buf[:], v)
		if got := getPointer(buf[:]); got != v {
			t.Errorf("putPointer/getPointer(%d) = %d", v, got)
		}
	}
}
