// Package main is the entry point of the srcmapaudit binary.
package main

import (
	"github.com/liuxd6825/srcmapaudit/internal/cmd"
)

func main() {
	cmd.Execute()
}
