// Package shortcut writes freedesktop .desktop launcher files that replay a
// headless launch-and-place invocation. The core has no dependency on this
// package; it only consumes the serializable argument tuple.
package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Invocation is the serializable argument tuple that reproduces a headless
// launch later.
type Invocation struct {
	ExePath        string
	MonitorIndex   int
	Mode           string
	ObserveSeconds int
}

// Args returns the CLI argument vector reproducing this invocation.
func (inv Invocation) Args() []string {
	return []string{
		"launch",
		"--exe", inv.ExePath,
		"--monitor", strconv.Itoa(inv.MonitorIndex),
		"--mode", inv.Mode,
		"--observe", strconv.Itoa(inv.ObserveSeconds),
	}
}

// DesktopDir returns the user's desktop directory, honoring
// XDG_DESKTOP_DIR when set.
func DesktopDir() (string, error) {
	if dir := os.Getenv("XDG_DESKTOP_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, "Desktop"), nil
}

// Write creates "<name>.desktop" in dir, pointing at launcherPath with the
// invocation's arguments. The entry uses the target executable as its icon
// and is marked executable so file managers trust it. Returns the written
// path.
func Write(dir, name, launcherPath string, inv Invocation) (string, error) {
	if name == "" {
		base := filepath.Base(inv.ExePath)
		name = strings.TrimSuffix(base, filepath.Ext(base)) + " (pinned)"
	}

	content := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Launch on monitor %d (%s)
Exec=%s
Icon=%s
Terminal=false
Categories=Utility;
`, name, inv.MonitorIndex, inv.Mode, execLine(launcherPath, inv.Args()), inv.ExePath)

	path := filepath.Join(dir, name+".desktop")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return "", fmt.Errorf("failed to write shortcut: %w", err)
	}
	return path, nil
}

// execLine builds the Exec= value with freedesktop quoting rules: arguments
// containing reserved characters are double-quoted, with embedded quotes,
// backslashes, dollars and backticks escaped.
func execLine(launcherPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteExecArg(launcherPath))
	for _, a := range args {
		parts = append(parts, quoteExecArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteExecArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n\"'\\><~|&;$*?#()`") {
		return arg
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range arg {
		switch r {
		case '"', '\\', '$', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
