// Package browser opens a URL in the user's default browser. Callers
// must validate the URL's scheme first; this package only dispatches.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the platform's URL opener for the given address.
func Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}
