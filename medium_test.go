// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamu

import (
	"bytes"
	"io"
	"testing"
)

func TestMemMediumWriteGrows(t *testing.T) {
	m := NewMemMedium()
	if n, err := m.WriteAt([]byte("hello"), 10); err != nil || n != 5 {
		t.Fatalf("WriteAt = %d, %v", n, err)
	}
	if l, _ := m.Length(); l != 15 {
		t.Fatalf("Length = %d, want 15", l)
	}
	buf := make([]byte, 5)
	if _, err := m.ReadAt(buf, 10); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte("hello")) {
		t.Fatalf("ReadAt = %q", buf)
	}
}

func TestMemMediumShortReadIsError(t *testing.T) {
	m := NewMemMediumSize(4)
	buf := make([]byte, 8)
	if _, err := m.ReadAt(buf, 0); err == nil {
		t.Fatal("expected error on short read")
	}
	if _, err := m.ReadAt(buf, 100); err != io.EOF {
		t.Fatalf("ReadAt past end = %v, want io.EOF", err)
	}
}

func TestMemMediumTruncate(t *testing.T) {
	m := NewMemMediumSize(16)
	if err := m.Truncate(4); err != nil {
		t.Fatal(err)
	}
	if l, _ := m.Length(); l != 4 {
		t.Fatalf("Length = %d, want 4", l)
	}
	if err := m.Truncate(8); err != nil {
		t.Fatal(err)
	}
	if l, _ := m.Length(); l != 8 {
		t.Fatalf("Length = %d, want 8", l)
	}
	if !bytes.Equal(m.Bytes()[4:8], make([]byte, 4)) {
		t.Fatal("grown tail not zeroed")
	}
}
