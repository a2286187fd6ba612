// Command routeplanner finds shortest routes on a YAML road map.
//
// Usage:
//
//	routeplanner route --map city.yaml --start 10,10 --end 90,90
//	routeplanner batch --config routeplanner.yaml --workers 8
//
// Coordinates are percentages of the map's bounding box on each axis.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
