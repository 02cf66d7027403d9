// Package msg prints leveled, colored diagnostics to the terminal.
package msg

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

func prefixed(prefix, format string, a ...any) {
	fmt.Print(prefix)
	fmt.Print(": ")
	fmt.Printf(format, a...)
	fmt.Print("\n")
}

func Error(format string, a ...any) {
	prefixed(color.HiRedString("error"), format, a...)
}

func Warn(format string, a ...any) {
	prefixed(color.YellowString("warn"), format, a...)
}

func Fatal(format string, a ...any) {
	prefixed(color.RedString("fatal"), format, a...)
	os.Exit(1)
}

func Info(format string, a ...any) {
	prefixed(color.HiGreenString("info"), format, a...)
}

// IndentWriter prefixes every line written through it with Indent. Used to
// indent progress output from go-git.
type IndentWriter struct {
	Indent    string
	W         io.Writer
	didIndent bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	start := 0
	for i, c := range p {
		if !w.didIndent {
			if _, err := io.WriteString(w.W, w.Indent); err != nil {
				return start, err
			}
			w.didIndent = true
		}
		if c == '\n' || c == '\r' {
			if _, err := w.W.Write(p[start : i+1]); err != nil {
				return start, err
			}
			start = i + 1
			w.didIndent = false
		}
	}
	if start < len(p) {
		if _, err := w.W.Write(p[start:]); err != nil {
			return start, err
		}
	}
	return len(p), nil
}
