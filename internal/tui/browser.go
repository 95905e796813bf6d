package tui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openerCommand picks the platform launcher for URLs.
func openerCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "start"
	default:
		return "xdg-open"
	}
}

// openInBrowser hands the link to the system opener without waiting for it.
func openInBrowser(url string) error {
	if url == "" {
		return fmt.Errorf("article has no link")
	}
	cmd := exec.Command(openerCommand(), url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
