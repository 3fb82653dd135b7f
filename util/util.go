// Package util holds small cross-package helpers: filename sanitizing,
// terminal plumbing and generic ordering.
package util

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/filesystem"
	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s]`)
	repeatedUnderscores  = regexp.MustCompile(`__+`)
	edgeSeparators       = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename normalizes a string into a filename that is valid on
// every supported platform.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "_")
	filename = repeatedUnderscores.ReplaceAllString(filename, "_")
	return edgeSeparators.ReplaceAllString(filename, "")
}

// Quantify formats a count with its singular or plural label.
func Quantify(count int, singular, plural string) string {
	label := plural
	if count == 1 {
		label = singular
	}

	return fmt.Sprintf("%d %s", count, label)
}

// Capitalize uppercases the leading character. Meant for ASCII labels.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// TerminalSize reports the character dimensions of the attached terminal.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FileStem returns the base name of a path without its extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ClearScreen clears the terminal buffer with the platform's native command.
func ClearScreen() {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case constant.Linux, constant.Darwin:
		cmd = exec.Command("tput", "clear")
	case constant.Windows:
		cmd = exec.Command("cmd", "/c", "cls")
	default:
		return
	}

	cmd.Stdout = os.Stdout
	_ = cmd.Run()
}

// PrintErasable prints a transient status line and returns a closure that
// erases it. The erase width is measured in terminal cells, so wide runes
// and color codes in the message do not leave residue.
func PrintErasable(msg string) (eraser func()) {
	fmt.Fprint(os.Stdout, "\r"+msg)
	return func() {
		fmt.Fprint(os.Stdout, "\r"+strings.Repeat(" ", ansi.PrintableRuneWidth(msg))+"\r")
	}
}

// Ignore runs a function and discards its error.
func Ignore(f func() error) {
	_ = f()
}

// Max returns the largest of its arguments, or the zero value given none.
func Max[T constraints.Ordered](items ...T) (max T) {
	for i, item := range items {
		if i == 0 || item > max {
			max = item
		}
	}

	return max
}

// Min returns the smallest of its arguments, or the zero value given none.
func Min[T constraints.Ordered](items ...T) (min T) {
	for i, item := range items {
		if i == 0 || item < min {
			min = item
		}
	}

	return min
}

// Delete removes a file or directory tree through the virtualized filesystem.
func Delete(path string) error {
	backend := filesystem.API()

	stat, err := backend.Stat(path)
	if err != nil {
		return err
	}

	if stat.IsDir() {
		return backend.RemoveAll(path)
	}

	return backend.Remove(path)
}
