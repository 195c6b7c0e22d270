package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/deskup/cmd/deskup"
	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/style"
)

func main() {
	rootCmd := deskup.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// A failing provisioning command recorded the exit status of
		// the command that broke; pass it through.
		os.Exit(errors.ExitCode(err))
	}
}
