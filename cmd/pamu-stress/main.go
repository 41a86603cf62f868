// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pamu-stress drives an Allocator through random allocate/free cycles
// against an on-disk medium, re-verifying its consistency every 64
// rounds and once more after freeing everything, the way lldb's lab/1 benchmark and dbm/crash exercise their
// own allocators.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/finwo/pamu"
)

var (
	oFile    = flag.String("f", "stress.db", "scratch medium file")
	oRounds  = flag.Int("rounds", 1000, "number of allocate/free rounds")
	oMaxSize = flag.Int("max", 1<<14, "max single allocation size")
	oLive    = flag.Int("live", 256, "target number of simultaneously live blocks")
	oSeed    = flag.Int64("seed", 42, "PRNG seed")
)

func main() {
	log.SetFlags(log.Lshortfile)
	flag.Parse()

	os.Remove(*oFile)
	f, err := os.OpenFile(*oFile, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	defer os.Remove(*oFile)

	a := pamu.NewAllocator(pamu.NewOSMedium(f))
	if err := a.Init(pamu.DYNAMIC); err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewSource(*oSeed))
	var live []pamu.Addr

	verify := func() {
		if _, err := a.Verify(func(problem error) bool {
			log.Fatal(problem)
			return false
		}); err != nil {
			log.Fatal(err)
		}
	}

	for round := 0; round < *oRounds; round++ {
		switch {
		case len(live) < *oLive/2 || rng.Intn(2) == 0:
			size := int64(1 + rng.Intn(*oMaxSize))
			addr, err := a.Allocate(size)
			if err != nil {
				log.Fatal(err)
			}
			if got, err := a.Size(addr); err != nil || got < size {
				log.Fatalf("Size(%d) = %d, %v; want >= %d", addr, got, err, size)
			}
			live = append(live, addr)
		default:
			i := rng.Intn(len(live))
			if err := a.Free(live[i]); err != nil {
				log.Fatal(err)
			}
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}

		if round%64 == 0 {
			verify()
		}
	}

	for _, addr := range live {
		if err := a.Free(addr); err != nil {
			log.Fatal(err)
		}
	}
	verify()

	fi, err := f.Stat()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d rounds ok, final medium size %d bytes", *oRounds, fi.Size())
}
