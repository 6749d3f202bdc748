// Command egz compresses and expands files using a byte-granular
// Huffman code, in the container format documented in the egz package
// family (huffman, container).
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/xs-labs/egz/container"
)

const version = "0.1.0"

// debugEnabled is set by whichever subcommand's -debug flag fires;
// debugf below is shared by both.
var debugEnabled bool

func quitF(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		panic(err)
	}
	os.Exit(1)
}

func assertNoError(err error) {
	if err != nil {
		quitF("%v\n", err)
	}
}

func debugf(format string, args ...interface{}) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compress":
		runCompress(os.Args[2:])
	case "expand":
		runExpand(os.Args[2:])
	case "-version", "--version":
		fmt.Println("egz v" + version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: egz <compress|expand> [-o output] [-force] [-debug] <path>")
}

func runCompress(args []string) {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	out := fs.String("o", "", "output file (defaults to <path>.egz)")
	force := fs.Bool("force", false, "proceed without confirmation on negative compression")
	debug := fs.Bool("debug", false, "print the symbol table and code book after compressing")
	assertNoError(fs.Parse(args))

	if fs.NArg() != 1 {
		quitF("compress: exactly one input path required\n")
	}
	path := fs.Arg(0)
	debugEnabled = *debug

	in, err := os.Open(path)
	assertNoError(err)
	defer in.Close()

	destPath := *out
	if destPath == "" {
		destPath, err = container.CompressedName(path)
		assertNoError(err)
	}

	attemptCompress(in, destPath, *force)
}

func attemptCompress(in *os.File, destPath string, force bool) {
	outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	assertNoError(err)
	defer outFile.Close()

	stats, err := container.Compress(in, outFile, container.Options{Force: force})
	if errors.Is(err, container.ErrNegativeCompression) {
		fmt.Fprintf(os.Stderr, "%v — compress anyway? [y/N] ", err)
		if !readYesNo() {
			os.Remove(destPath)
			assertNoError(container.ErrAbort)
		}
		assertNoError(seekStart(in))
		assertNoError(resetFile(outFile))
		stats, err = container.Compress(in, outFile, container.Options{Force: true})
	}
	if err != nil {
		os.Remove(destPath)
		assertNoError(err)
		return
	}

	container.WriteSummary(os.Stdout, "compression", stats)
	if debugEnabled {
		container.DebugSymbolReport(os.Stderr, stats.Table)
	}
	debugf("destination: %s\n", destPath)
}

func seekStart(f *os.File) error {
	_, err := f.Seek(0, 0)
	return err
}

func resetFile(f *os.File) error {
	if err := seekStart(f); err != nil {
		return err
	}
	return f.Truncate(0)
}

func runExpand(args []string) {
	fs := flag.NewFlagSet("expand", flag.ExitOnError)
	out := fs.String("o", "", "output file (defaults to the stripped/expanded name)")
	force := fs.Bool("force", false, "proceed without confirmation on digest mismatch")
	debug := fs.Bool("debug", false, "print the code book after expanding")
	assertNoError(fs.Parse(args))

	if fs.NArg() != 1 {
		quitF("expand: exactly one input path required\n")
	}
	path := fs.Arg(0)
	debugEnabled = *debug

	in, err := os.Open(path)
	assertNoError(err)
	defer in.Close()

	destPath := *out
	if destPath == "" {
		destPath, err = container.ExpandedName(path)
		assertNoError(err)
	}

	outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	assertNoError(err)
	defer outFile.Close()

	stats, err := container.Expand(in, outFile, container.Options{Force: *force})
	if errors.Is(err, container.ErrDigestMismatch) {
		if !*force {
			fmt.Fprintf(os.Stderr, "%v — keep output anyway? [y/N] ", err)
			if readYesNo() {
				err = nil
			} else {
				err = container.ErrAbort
			}
		} else {
			err = nil
		}
	}
	if err != nil {
		os.Remove(destPath)
		assertNoError(err)
		return
	}

	container.WriteSummary(os.Stdout, "expansion", stats)
	if debugEnabled {
		container.DebugCodeBookReport(os.Stderr, stats.Entries)
	}
	debugf("destination: %s\n", destPath)
}

func readYesNo() bool {
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
