// cmd/portal/main.go
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
