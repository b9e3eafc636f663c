// intern-tester is an interactive shell for poking at the default
// interner: every line typed is interned as a string and its identity
// printed, so repeated lines visibly collapse to the same token.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/intern-all/intern"
)

const help = `commands:
  .stats        per-type table occupancy
  .sweep        drop dead entries (runs the GC first)
  .list a b c   intern the words as a token list
  .help         this text
  .quit         exit (also Ctrl-D)
anything else is interned as a string`

func main() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(os.Stderr, "intern-tester: stdin is not a terminal")
		os.Exit(1)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "intern-tester: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(fd, oldState)

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	t := term.NewTerminal(screen, "intern> ")

	fmt.Fprintln(t, "intern-tester — type .help for commands")
	for {
		line, err := t.ReadLine()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "intern-tester: %v\n", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ".") {
			tok := intern.I(line)
			fmt.Fprintf(t, "token %#x  %q\n", uint64(tok.ID()), tok.Value())
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		switch cmd {
		case ".quit":
			return
		case ".help":
			fmt.Fprintln(t, help)
		case ".stats":
			sizes := intern.Default().Sizes()
			names := make([]string, 0, len(sizes))
			for name := range sizes {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(t, "%6d  %s\n", sizes[name], name)
			}
			if len(names) == 0 {
				fmt.Fprintln(t, "no tables yet")
			}
		case ".sweep":
			runtime.GC()
			fmt.Fprintf(t, "swept %d dead entries\n", intern.Sweep())
		case ".list":
			words := strings.Fields(rest)
			if len(words) == 0 {
				fmt.Fprintln(t, ".list needs at least one word")
				continue
			}
			tok := intern.IBV(words)
			fmt.Fprintf(t, "list token %#x  %v\n", uint64(tok.ID()), intern.Resolve(tok))
		default:
			fmt.Fprintf(t, "unknown command %q — try .help\n", cmd)
		}
	}
}
