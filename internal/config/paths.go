package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the directories the application reads from and writes to.
type Paths struct {
	BaseDir   string
	DataDir   string
	ExportDir string
	LogsDir   string
}

// GetPaths resolves the base directory from the executable location. Under
// `go run` and `go test` the executable lives in a temp dir, so the working
// directory is used instead.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	base := filepath.Dir(exe)
	if isTempBuild(base) {
		if base, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	return NewPaths(base), nil
}

// NewPaths lays out the default directories under base.
func NewPaths(base string) *Paths {
	return &Paths{
		BaseDir:   base,
		DataDir:   filepath.Join(base, "data"),
		ExportDir: filepath.Join(base, "data", "exports"),
		LogsDir:   filepath.Join(base, "logs"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ExportDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("export_dir", p.ExportDir),
		slog.String("logs_dir", p.LogsDir))
}

// Paths returns the directories named by the configuration.
func (c *Config) Paths() *Paths {
	return &Paths{
		DataDir:   c.Data.Dir,
		ExportDir: c.Data.ExportDir,
		LogsDir:   filepath.Dir(c.Logging.FilePath),
	}
}

// DataFile returns the absolute path of the default register workbook.
func (c *Config) DataFile() string {
	return c.ResolveDataPath(c.Data.File)
}

// ResolveDataPath resolves a workbook name against the data directory.
// Absolute paths are returned unchanged.
func (c *Config) ResolveDataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}

func (c *Config) resolvePaths(base string) {
	c.Data.Dir = absUnder(base, c.Data.Dir)
	c.Data.ExportDir = absUnder(base, c.Data.ExportDir)
	if c.Logging.FilePath != "" {
		c.Logging.FilePath = absUnder(base, c.Logging.FilePath)
	}
}

func absUnder(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

func isTempBuild(dir string) bool {
	tmp, err := filepath.EvalSymlinks(os.TempDir())
	if err != nil {
		tmp = os.TempDir()
	}
	rel, err := filepath.Rel(tmp, dir)
	return err == nil && rel != ".." && !filepath.IsAbs(rel) && len(rel) > 0 && rel[0] != '.'
}
