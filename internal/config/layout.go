package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the state directory, normally <home>/.atci.
const EnvHome = "ATCI_HOME"

// Layout resolves every path under the state directory.
type Layout struct {
	Root string
}

// DefaultLayout returns $ATCI_HOME or <user home>/.atci.
func DefaultLayout() (Layout, error) {
	if root := os.Getenv(EnvHome); root != "" {
		return Layout{Root: root}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Layout{}, fmt.Errorf("locate home dir: %w", err)
	}
	return Layout{Root: filepath.Join(home, ".atci")}, nil
}

func (l Layout) ModelsDir() string      { return filepath.Join(l.Root, "models") }
func (l Layout) QueueFile() string      { return filepath.Join(l.Root, ".queue") }
func (l Layout) ProcessingFile() string { return filepath.Join(l.Root, ".currently_processing") }
func (l Layout) BlocklistFile() string  { return filepath.Join(l.Root, ".blocklist") }
func (l Layout) CommandsDir() string    { return filepath.Join(l.Root, ".commands") }
func (l Layout) CancelFile() string     { return filepath.Join(l.CommandsDir(), "CANCEL") }
func (l Layout) DatabaseFile() string   { return filepath.Join(l.Root, "video_info.db") }
func (l Layout) PIDDir() string         { return l.Root }
func (l Layout) ModelPath(name string) string {
	return filepath.Join(l.ModelsDir(), name+".bin")
}

// Ensure creates the state directory tree.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Root, l.ModelsDir(), l.CommandsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
