// Command contentsync extracts structured content from web pages and YouTube
// videos and keeps a local content database in sync with a content API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
