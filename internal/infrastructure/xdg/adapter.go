// Package xdg implements port.XDGPaths on top of the config package.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/infrastructure/config"
)

// Adapter implements port.XDGPaths using config.GetXDGDirs().
type Adapter struct{}

// New creates a new XDG paths adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) ConfigDir() (string, error) {
	return config.GetConfigDir()
}

func (a *Adapter) DataDir() (string, error) {
	return config.GetDataDir()
}

func (a *Adapter) StateDir() (string, error) {
	return config.GetStateDir()
}

func (a *Adapter) CacheDir() (string, error) {
	return config.GetCacheDir()
}

func (a *Adapter) LogDir() (string, error) {
	return config.GetLogDir()
}

// ManDir returns $XDG_DATA_HOME/man/man1, shared with other programs.
func (a *Adapter) ManDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "man", "man1"), nil
}

var _ port.XDGPaths = (*Adapter)(nil)
