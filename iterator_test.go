// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamu

import "testing"

func TestNextSkipsFreeBlocks(t *testing.T) {
	m := NewMemMedium()
	a := NewAllocator(m)
	if err := a.Init(DYNAMIC); err != nil {
		t.Fatal(err)
	}

	a1, err := a.Allocate(16)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := a.Allocate(16)
	if err != nil {
		t.Fatal(err)
	}
	a3, err := a.Allocate(16)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Free(a2); err != nil {
		t.Fatal(err)
	}

	got, err := a.Next(NoAddr)
	if err != nil {
		t.Fatal(err)
	}
	if got != a1 {
		t.Fatalf("Next(NoAddr) = %d, want %d", got, a1)
	}

	got, err = a.Next(got)
	if err != nil {
		t.Fatal(err)
	}
	if got != a3 {
		t.Fatalf("Next after a1 = %d, want %d (a2 was freed)", got, a3)
	}

	got, err = a.Next(got)
	if err != nil {
		t.Fatal(err)
	}
	if got != NoAddr {
		t.Fatalf("Next after last block = %d, want NoAddr", got)
	}
}

func TestNextEmptyMedium(t *testing.T) {
	m := NewMemMedium()
	a := NewAllocator(m)
	if err := a.Init(DYNAMIC); err != nil {
		t.Fatal(err)
	}
	if got, err := a.Next(NoAddr); err != nil || got != NoAddr {
		t.Fatalf("Next(NoAddr) = %d, %v, want NoAddr, nil", got, err)
	}
}
