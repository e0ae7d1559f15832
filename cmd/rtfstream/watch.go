package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/inkwell-go/rtfstream"
)

const watchDebounce = 300 * time.Millisecond

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and re-dump .rtf files as they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0])
		},
	}
}

func runWatch(cmd *cobra.Command, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("rtfstream: starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("rtfstream: watching %s: %w", dir, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s for .rtf changes\n", dir)

	pending := map[string]*time.Timer{}
	changed := make(chan string)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".rtf") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if t, ok := pending[ev.Name]; ok {
				t.Stop()
			}
			path := ev.Name
			pending[path] = time.AfterFunc(watchDebounce, func() {
				changed <- path
			})
		case path := <-changed:
			delete(pending, path)
			if err := dumpChangedFile(cmd, path); err != nil {
				fmt.Fprintf(os.Stderr, "rtfstream: %s: %v\n", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "rtfstream: watcher error: %v\n", err)
		}
	}
}

func dumpChangedFile(cmd *cobra.Command, path string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s ---\n", path)

	data, err := readInput(path)
	if err != nil {
		return err
	}

	p, err := rtfstream.New(dumpCallbacks(cmd, "text"))
	if err != nil {
		return err
	}
	p.OpenString(string(data))
	return p.Parse()
}
