// Package open hands URLs and files to the operating system's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/vodhound/vodhound/constant"
)

// Start launches the input with the default handler and returns without
// waiting for the handler to exit.
func Start(input string) error {
	cmd, err := command(input)
	if err != nil {
		return err
	}

	return cmd.Start()
}

// Run launches the input with the default handler and waits for it to exit.
func Run(input string) error {
	cmd, err := command(input)
	if err != nil {
		return err
	}

	return cmd.Run()
}

func command(input string) (*exec.Cmd, error) {
	name, args := handler()
	if name == "" {
		return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return exec.Command(name, append(args, input)...), nil
}

// handler picks the per-OS opener. Windows goes through rundll32 instead of
// the start builtin so URLs with query strings need no shell escaping.
func handler() (name string, args []string) {
	switch runtime.GOOS {
	case constant.Windows:
		return filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe"), []string{"url.dll,FileProtocolHandler"}
	case constant.Darwin:
		return "open", nil
	case constant.Linux:
		return "xdg-open", nil
	case constant.Android:
		return "termux-open", nil
	default:
		return "", nil
	}
}
