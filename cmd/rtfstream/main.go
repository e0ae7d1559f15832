// Command rtfstream is a small CLI around the rtfstream core parser: dump
// a document to plain text, serve it over HTTP/WebSocket, or watch a
// directory and re-dump files as they change.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rtfstream",
		Short: "Stream-parse RTF documents",
		Long:  "rtfstream dumps, serves, and watches RTF documents using the rtfstream core parser.",
	}
	cmd.AddCommand(newDumpCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newWatchCommand())
	return cmd
}
