// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamu

import "testing"

func TestVerifyCleanMedium(t *testing.T) {
	m := NewMemMedium()
	a := NewAllocator(m)
	if err := a.Init(DYNAMIC); err != nil {
		t.Fatal(err)
	}
	a1, err := a.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Allocate(64); err != nil {
		t.Fatal(err)
	}
	if err := a.Free(a1); err != nil {
		t.Fatal(err)
	}

	rep, err := a.Verify(func(err error) bool {
		t.Error(err)
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if rep.TotalBlocks != 2 || rep.AllocBlocks != 1 || rep.FreeBlocks != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestVerifyDetectsTrailerCorruption(t *testing.T) {
	m := NewMemMedium()
	a := NewAllocator(m)
	if err := a.Init(DYNAMIC); err != nil {
		t.Fatal(err)
	}
	addr, err := a.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}

	off := int64(addr) - markerSize
	var corrupt [markerSize]byte
	putMarker(corrupt[:], markerValue(65, false))
	if err := a.writeFull(corrupt[:], off+markerSize+64); err != nil {
		t.Fatal(err)
	}

	var problems int
	if _, err := a.Verify(func(error) bool {
		problems++
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if problems == 0 {
		t.Fatal("expected Verify to report the corrupted trailer")
	}
}

func TestVerifyStopsEarlyWhenOnProblemReturnsFalse(t *testing.T) {
	m := NewMemMedium()
	a := NewAllocator(m)
	if err := a.Init(DYNAMIC); err != nil {
		t.Fatal(err)
	}
	addr, err := a.Allocate(64)
	if err != nil {
		t.Fatal(err)
	}
	off := int64(addr) - markerSize
	var corrupt [markerSize]byte
	putMarker(corrupt[:], markerValue(999, false))
	if err := a.writeFull(corrupt[:], off); err != nil {
		t.Fatal(err)
	}

	calls := 0
	if _, err := a.Verify(func(error) bool {
		calls++
		return false
	}); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("onProblem called %d times, want 1", calls)
	}
}
