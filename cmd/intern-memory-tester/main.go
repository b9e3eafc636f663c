package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/intern-all/intern"
)

// memStats holds memory statistics for a point in time
type memStats struct {
	alloc      uint64 // bytes allocated and still in use
	totalAlloc uint64 // bytes allocated (even if freed)
	sys        uint64 // bytes obtained from system
	numGC      uint32 // number of completed GC cycles
}

func getMemStats() memStats {
	runtime.GC() // Force GC to get accurate measurement
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return memStats{
		alloc:      m.Alloc,
		totalAlloc: m.TotalAlloc,
		sys:        m.Sys,
		numGC:      m.NumGC,
	}
}

func (m memStats) String() string {
	return fmt.Sprintf("Alloc: %6d KB, TotalAlloc: %6d KB, Sys: %6d KB, NumGC: %d",
		m.alloc/1024, m.totalAlloc/1024, m.sys/1024, m.numGC)
}

func main() {
	in := intern.New()

	const iterations = 10000
	const reportInterval = 1000
	const churnPerIteration = 20

	// Get baseline memory stats
	startMem := getMemStats()
	fmt.Println("Start:", startMem)

	// A small set of stable values that stay live for the whole run.
	stable := make([]intern.Token[intern.Str], 8)
	for i := range stable {
		stable[i] = intern.InternString(in, "stable-"+strconv.Itoa(i))
	}

	// Stress test: every iteration interns a batch of distinct strings and
	// a token list, then drops them. With periodic sweeps the tables must
	// not grow unbounded.
	for i := 0; i < iterations; i++ {
		batch := make([]string, 0, churnPerIteration)
		for j := 0; j < churnPerIteration; j++ {
			s := "churn-" + strconv.Itoa(i) + "-" + strconv.Itoa(j)
			batch = append(batch, s)
			intern.InternString(in, s)
		}
		intern.InternStrings(in, batch)

		if i%reportInterval == 0 && i > 0 {
			runtime.GC()
			removed := in.Sweep()
			stats := getMemStats()
			fmt.Printf("Iteration %5d: %s, swept %6d, occupancy %v\n", i, stats, removed, in.Sizes())
		}
	}

	// Final sweep, then final memory stats
	runtime.GC()
	in.Sweep()
	endMem := getMemStats()
	fmt.Println("End:  ", endMem)

	// After sweeping, only the stable values (plus registry scaffolding)
	// may remain in the tables.
	strSize := intern.Table[intern.Str](in).Size()
	if strSize > len(stable) {
		fmt.Fprintf(os.Stderr, "FAIL: %d Str entries remain after final sweep, want at most %d\n", strSize, len(stable))
		os.Exit(1)
	}

	// Check for memory leaks
	// Calculate growth metrics
	allocGrowth := int64(endMem.alloc) - int64(startMem.alloc)
	allocGrowthKB := allocGrowth / 1024
	bytesPerIteration := float64(allocGrowth) / float64(iterations)

	fmt.Printf("\nMemory growth: %d KB (%.2f bytes/iteration)\n", allocGrowthKB, bytesPerIteration)

	// Threshold: Check bytes per iteration rather than absolute growth.
	// Swept tables should return churned values to the collector, so each
	// iteration must not add unbounded memory. Allow some slack for map
	// bucket growth and GC lag; anything higher indicates a leak.
	const maxBytesPerIter = 100.0

	if bytesPerIteration > maxBytesPerIter {
		fmt.Fprintf(os.Stderr, "FAIL: Memory leak detected\n")
		fmt.Fprintf(os.Stderr, "  Start Alloc:        %d KB\n", startMem.alloc/1024)
		fmt.Fprintf(os.Stderr, "  End Alloc:          %d KB\n", endMem.alloc/1024)
		fmt.Fprintf(os.Stderr, "  Growth:             %d KB\n", allocGrowthKB)
		fmt.Fprintf(os.Stderr, "  Bytes/iteration:    %.2f (threshold: %.2f)\n", bytesPerIteration, maxBytesPerIter)
		fmt.Fprintf(os.Stderr, "\nThis indicates table entries are not being reclaimed by sweeps.\n")
		os.Exit(1)
	}

	fmt.Println("PASS: No memory leaks detected")
}
