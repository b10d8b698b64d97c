package autostart

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const desktopEntry = `[Desktop Entry]
Type=Application
Name=%s
Exec=%s
X-GNOME-Autostart-enabled=true
`

// Entry manages the XDG autostart desktop file that launches the daemon
// at login. The file's existence is the whole state; there is nothing
// else to keep in sync.
type Entry struct {
	appName string
	dir     string
	logger  *zap.Logger
}

// New creates an autostart entry manager for appName
func New(appName string, logger *zap.Logger) *Entry {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	return &Entry{
		appName: appName,
		dir:     filepath.Join(dir, "autostart"),
		logger:  logger,
	}
}

func (e *Entry) path() string {
	return filepath.Join(e.dir, e.appName+".desktop")
}

// Enabled reports whether the autostart entry exists
func (e *Entry) Enabled() bool {
	_, err := os.Stat(e.path())
	return err == nil
}

// Enable writes the autostart entry pointing at the current executable
func (e *Entry) Enable() error {
	exec, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}

	content := fmt.Sprintf(desktopEntry, e.appName, exec)
	if err := os.WriteFile(e.path(), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}

	e.logger.Info("Autostart enabled", zap.String("path", e.path()))
	return nil
}

// Disable removes the autostart entry. Removing an absent entry is not
// an error.
func (e *Entry) Disable() error {
	if err := os.Remove(e.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}

	e.logger.Info("Autostart disabled", zap.String("path", e.path()))
	return nil
}
