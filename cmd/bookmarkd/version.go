package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/bookmarkd/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bookmarkd %s (%s@%s)\n", build.Version, build.Branch, build.Commit)
		},
	}
}
