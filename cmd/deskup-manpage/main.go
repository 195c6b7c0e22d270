// Generates the deskup(1) man page for distro packaging.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/deskup/cmd/deskup"
	"github.com/arthur-debert/deskup/internal/version"
)

func main() {
	rootCmd := deskup.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DESKUP",
		Section: "1",
		Source:  "deskup " + version.Version,
		Manual:  "deskup manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
