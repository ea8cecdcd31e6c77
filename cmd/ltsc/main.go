/*
Ltsc compiles process algebra source into labelled transition systems.

By default, it reads a single source file and prints the resulting automata.
With --interactive, it instead starts a REPL that compiles one model at a time
from standard input.

Usage:

	ltsc [flags] FILE
	ltsc [flags] --interactive

The flags are:

	-v, --version
		Give the current version of ltsc and then exit.

	-i, --interactive
		Start an interactive session that reads models from stdin instead of
		compiling a file.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines, even when launched in a tty. Only applies in
		interactive mode.

	-f, --fair
		Use fair-testing abstraction semantics instead of weak-trace
		abstraction when simplifying a model with ":abstract".
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/ltsc"
	"github.com/dekarrin/ltsc/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates an unsuccessful program execution due to a
	// problem compiling the source.
	ExitCompileError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the session or reading input.
	ExitInitError
)

var (
	returnCode      int   = ExitSuccess
	flagVersion     *bool = pflag.BoolP("version", "v", false, "Gives the version info")
	flagInteractive *bool = pflag.BoolP("interactive", "i", false, "Start an interactive compile session reading from stdin")
	forceDirect     *bool = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	fairAbstraction *bool = pflag.BoolP("fair", "f", false, "Use fair-testing abstraction semantics for :abstract")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *flagInteractive {
		runInteractive()
		return
	}

	runFile()
}

func runInteractive() {
	sess, err := ltsc.NewSession(nil, nil, *forceDirect, *fairAbstraction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer sess.Close()

	if err := sess.RunUntilEOF(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitCompileError
	}
}

func runFile() {
	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Exactly one source file is required.\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	sourceBytes, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	result, err := ltsc.Compile(string(sourceBytes), false, *fairAbstraction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}

	for _, a := range result.Automata {
		fmt.Printf("%s: %d nodes, %d edges\n", a.Name, a.LTS.NodeCount(), a.LTS.EdgeCount())
	}
}
