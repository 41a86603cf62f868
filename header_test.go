// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamu

import (
	"errors"
	"testing"
)

func TestEncodeDecodeMerged(t *testing.T) {
	flags, hl := decodeMerged(encodeMerged(DYNAMIC, headerLength))
	if flags != DYNAMIC || hl != headerLength {
		t.Fatalf("roundtrip = (%v,%d), want (%v,%d)", flags, hl, DYNAMIC, headerLength)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	m := NewMemMediumSize(headerLength)
	a := NewAllocator(m)
	_, _, err := a.readHeader()
	if !errors.Is(err, ErrMediumUninitialized) {
		t.Fatalf("err = %v, want ErrMediumUninitialized", err)
	}
}

func TestWriteThenReadHeader(t *testing.T) {
	m := NewMemMediumSize(headerLength)
	a := NewAllocator(m)
	if err := a.writeHeader(DYNAMIC); err != nil {
		t.Fatal(err)
	}
	h, medLen, err := a.readHeader()
	if err != nil {
		t.Fatal(err)
	}
	if h.flags != DYNAMIC {
		t.Fatalf("flags = %v, want DYNAMIC", h.flags)
	}
	if medLen != headerLength {
		t.Fatalf("medLen = %d, want %d", medLen, headerLength)
	}
}
