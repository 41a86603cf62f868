// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pamu-fsck verifies the internal consistency of a pamu medium file
// and prints a block-count/byte-count summary.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/finwo/pamu"
)

var (
	oFile      = flag.String("f", "", "medium file to check")
	oMaxErrors = flag.Int("n", 20, "stop after this many problems (0: unlimited)")
)

func main() {
	log.SetFlags(log.Lshortfile)
	flag.Parse()
	if *oFile == "" {
		log.Fatal("missing -f medium file")
	}

	f, err := os.OpenFile(*oFile, os.O_RDWR, 0)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	a := pamu.NewAllocator(pamu.NewOSMedium(f))

	n := 0
	report, err := a.Verify(func(problem error) bool {
		n++
		fmt.Fprintln(os.Stderr, problem)
		return *oMaxErrors == 0 || n < *oMaxErrors
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("blocks: %d (alloc %d, free %d)\n", report.TotalBlocks, report.AllocBlocks, report.FreeBlocks)
	fmt.Printf("bytes:  alloc %d, free %d\n", report.AllocBytes, report.FreeBytes)
	fmt.Printf("problems: %d\n", n)
	if n > 0 {
		os.Exit(1)
	}
}
