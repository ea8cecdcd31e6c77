package ltsc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/ltsc/internal/input"
	"github.com/dekarrin/ltsc/internal/lts"
)

// Session drives an interactive compile loop: read one line (or run of
// lines up to a trailing "."), compile it, and print the resulting
// automata or error, repeating until the input stream closes.
type Session struct {
	in          input.Reader
	out         *bufio.Writer
	forceDirect bool
	fair        bool

	// automata and alloc hold the most recently compiled Result, so a
	// later ":abstract NAME" command can rewrite one of its automata in
	// place using node/edge IDs that cannot collide with ones already in
	// use.
	automata map[string]Automaton
	alloc    *lts.IDAllocator
}

// NewSession creates a Session ready to operate on the given input and
// output streams.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin.
// If nil is given for the output stream, a bufio.Writer is opened on
// stdout. fairAbstraction controls which weak-abstraction variant the
// session's ":abstract" command applies.
func NewSession(inputStream io.Reader, outputStream io.Writer, forceDirectInput, fairAbstraction bool) (*Session, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	sess := &Session{
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
		fair:        fairAbstraction,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout
	var err error
	if useReadline {
		sess.in, err = input.NewInteractiveReader("ltsc> ")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		sess.in = input.NewDirectReader(inputStream)
	}

	return sess, nil
}

// Close tears down any readline-related resources held by the Session.
func (sess *Session) Close() error {
	if err := sess.in.Close(); err != nil {
		return fmt.Errorf("close input reader: %w", err)
	}
	return nil
}

// RunUntilEOF reads and compiles source one model-terminating "." at a time
// until the input stream is exhausted, printing each compile's result or
// error.
func (sess *Session) RunUntilEOF() error {
	intro := "ltsc interactive session\n"
	if sess.forceDirect {
		intro += "(direct input mode)\n"
	}
	intro += "Enter a model terminated by \".\"; Ctrl-D to quit.\n"
	intro += "Use \":abstract NAME\" to apply weak abstraction to a compiled automaton.\n"
	if err := sess.write(intro); err != nil {
		return err
	}

	for {
		line, err := sess.in.ReadCommand()
		if err != nil {
			if err == io.EOF {
				return sess.write("Goodbye\n")
			}
			return fmt.Errorf("read source line: %w", err)
		}

		if name, ok := parseAbstractCommand(line); ok {
			if err := sess.abstractAutomaton(name); err != nil {
				if werr := sess.write("Error: " + err.Error() + "\n"); werr != nil {
					return werr
				}
			}
			continue
		}

		result, compileErr := Compile(line, true, sess.fair)
		if compileErr != nil {
			if err := sess.write("Error: " + compileErr.Error() + "\n"); err != nil {
				return err
			}
			continue
		}

		sess.automata = make(map[string]Automaton, len(result.Automata))
		sess.alloc = result.Alloc

		for _, a := range result.Automata {
			sess.automata[a.Name] = a
			msg := fmt.Sprintf("%s: %d nodes, %d edges\n", a.Name, a.LTS.NodeCount(), a.LTS.EdgeCount())
			if err := sess.write(msg); err != nil {
				return err
			}
		}
	}
}

// parseAbstractCommand reports whether line is a ":abstract NAME" command
// and, if so, the named automaton.
func parseAbstractCommand(line string) (name string, ok bool) {
	trimmed := strings.TrimSpace(line)
	rest := strings.TrimPrefix(trimmed, ":abstract")
	if rest == trimmed {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// abstractAutomaton applies the session's selected weak-abstraction variant
// to the named automaton from the most recently compiled result, replacing
// it in place, and prints the resulting node/edge counts.
func (sess *Session) abstractAutomaton(name string) error {
	if name == "" {
		return fmt.Errorf(":abstract requires a compiled automaton name")
	}

	a, ok := sess.automata[name]
	if !ok {
		return fmt.Errorf("no compiled automaton named %q", name)
	}

	reduced := Abstract(a.LTS, sess.alloc, sess.fair)
	a.LTS = reduced
	sess.automata[name] = a

	msg := fmt.Sprintf("%s: %d nodes, %d edges (abstracted)\n", name, reduced.NodeCount(), reduced.EdgeCount())
	return sess.write(msg)
}

func (sess *Session) write(s string) error {
	if _, err := sess.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return sess.out.Flush()
}
