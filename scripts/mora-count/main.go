package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/okuraya/tanka-hammer/src/tankahammer"
)

// Reads poems from stdin, one per line, and prints the mora count and the
// 5-7-5-7-7 segmentation for each.
func main() {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		a := tankahammer.Analyze(line)
		marker := " "
		if err := tankahammer.IsTanka(line); err == nil {
			marker = "*"
		}
		fmt.Printf("%s %2d %s\n", marker, a.TotalMora, a.String())
	}
	if err := sc.Err(); err != nil {
		fmt.Printf("encountered error: %v\n", err)
		os.Exit(1)
	}
}
