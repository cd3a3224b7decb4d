// ABOUTME: Main entry point for the aisearch command
// ABOUTME: Delegates to the cobra command tree

package main

import (
	"log"
)

func main() {
	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}
