// Package placeholder creates and removes dummy media files that stand in
// for content the library does not have yet. A placeholder is a hardlink or
// copy of one small configured video file, named so Radarr/Sonarr and the
// catalog recognize it as the real title.
package placeholder

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/spf13/afero"
)

// Strategy selects how the dummy file is placed into the library.
type Strategy string

const (
	StrategyHardlink Strategy = "hardlink" // os.Link, falls back to copy across devices
	StrategyCopy     Strategy = "copy"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a folder to be
// accepted as a title match when no id tag is present.
const fuzzyThreshold = 0.85

// Manager creates and deletes placeholder files.
type Manager struct {
	fs        afero.Fs
	dummyPath string
	strategy  Strategy
	log       *slog.Logger
}

// NewManager creates a placeholder manager. dummyPath is the small video
// file every placeholder links to or copies from.
func NewManager(fs afero.Fs, dummyPath string, strategy Strategy, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if strategy == "" {
		strategy = StrategyHardlink
	}
	return &Manager{
		fs:        fs,
		dummyPath: dummyPath,
		strategy:  strategy,
		log:       log.With("component", "placeholder"),
	}
}

// CreateMovie places a placeholder for a movie and returns its path.
// Creating an already existing placeholder is a no-op.
func (m *Manager) CreateMovie(root, title string, year int, tmdbID int64) (string, error) {
	dir := filepath.Join(root, movieDirName(title, year, tmdbID))
	path := filepath.Join(dir, movieFileName(title, year))
	return path, m.place(dir, path)
}

// CreateEpisode places a placeholder for one episode and returns its path.
func (m *Manager) CreateEpisode(root, seriesTitle string, year int, tvdbID int64, season, episode int) (string, error) {
	seriesDir, err := m.findDir(root, idTag("tvdb", tvdbID), seriesTitle)
	if err != nil {
		seriesDir = filepath.Join(root, seriesDirName(seriesTitle, year, tvdbID))
	}
	dir := filepath.Join(seriesDir, seasonDirName(season))
	path := filepath.Join(dir, episodeFileName(seriesTitle, season, episode))
	return path, m.place(dir, path)
}

// DeleteMovie removes a movie's placeholder file and its folder when that
// leaves the folder empty. Real media files are never touched: only the
// exact placeholder name is removed.
func (m *Manager) DeleteMovie(root, title string, year int, tmdbID int64) error {
	dir, err := m.findDir(root, idTag("tmdb", tmdbID), title)
	if err != nil {
		return err
	}
	return m.remove(dir, filepath.Join(dir, movieFileName(title, year)))
}

// DeleteEpisode removes one episode's placeholder.
func (m *Manager) DeleteEpisode(root, seriesTitle string, tvdbID int64, season, episode int) error {
	seriesDir, err := m.findDir(root, idTag("tvdb", tvdbID), seriesTitle)
	if err != nil {
		return err
	}
	dir := filepath.Join(seriesDir, seasonDirName(season))
	return m.remove(dir, filepath.Join(dir, episodeFileName(seriesTitle, season, episode)))
}

// DeleteSeries removes every placeholder under a series folder and prunes
// the directories that end up empty. Files that no longer match the dummy's
// size are real imports and survive, as does the folder holding them.
func (m *Manager) DeleteSeries(root, seriesTitle string, tvdbID int64) error {
	dir, err := m.findDir(root, idTag("tvdb", tvdbID), seriesTitle)
	if err != nil {
		return err
	}
	dummy, err := m.fs.Stat(m.dummyPath)
	if err != nil {
		return fmt.Errorf("stat dummy file: %w", err)
	}

	err = afero.Walk(m.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if info.Size() != dummy.Size() {
			return nil
		}
		if err := m.fs.Remove(path); err != nil {
			return fmt.Errorf("remove placeholder: %w", err)
		}
		m.log.Debug("placeholder removed", "path", path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete series placeholders: %w", err)
	}

	entries, err := afero.ReadDir(m.fs, dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		if subEntries, err := afero.ReadDir(m.fs, sub); err == nil && len(subEntries) == 0 {
			_ = m.fs.Remove(sub)
		}
	}
	if entries, err = afero.ReadDir(m.fs, dir); err == nil && len(entries) == 0 {
		_ = m.fs.Remove(dir)
	}
	return nil
}

// place creates dir and materializes the dummy file at path.
func (m *Manager) place(dir, path string) error {
	if exists, _ := afero.Exists(m.fs, path); exists {
		return nil
	}
	if err := m.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	if m.strategy == StrategyHardlink {
		if err := m.hardlink(path); err == nil {
			m.log.Debug("placeholder linked", "path", path)
			return nil
		}
		// cross-device or unsupported fs, fall through to copy
	}
	if err := m.copy(path); err != nil {
		return fmt.Errorf("place placeholder: %w", err)
	}
	m.log.Debug("placeholder copied", "path", path)
	return nil
}

// hardlink links the dummy file. Only the real filesystem supports links;
// everything else reports an error so place falls back to copying.
func (m *Manager) hardlink(path string) error {
	if _, ok := m.fs.(*afero.OsFs); !ok {
		return fmt.Errorf("hardlink unsupported on %s", m.fs.Name())
	}
	return os.Link(m.dummyPath, path)
}

func (m *Manager) copy(path string) error {
	src, err := m.fs.Open(m.dummyPath)
	if err != nil {
		return fmt.Errorf("open dummy file: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := m.fs.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// remove deletes the placeholder file and prunes the directory if empty.
// A file that no longer matches the dummy's size is the real import that
// replaced the placeholder in place; it is left alone.
func (m *Manager) remove(dir, path string) error {
	info, err := m.fs.Stat(path)
	if err != nil {
		return nil
	}
	if dummy, err := m.fs.Stat(m.dummyPath); err == nil && info.Size() != dummy.Size() {
		m.log.Debug("real file in placeholder position, keeping", "path", path)
		return nil
	}
	if err := m.fs.Remove(path); err != nil {
		return fmt.Errorf("remove placeholder: %w", err)
	}
	m.log.Debug("placeholder removed", "path", path)

	entries, err := afero.ReadDir(m.fs, dir)
	if err == nil && len(entries) == 0 {
		_ = m.fs.Remove(dir)
	}
	return nil
}

// findDir locates the library folder for a title: exact id-tag match first,
// then fuzzy title match against decorated folder names. Catalog status
// markers in folder names do not defeat the match because the comparison
// runs on normalized titles.
func (m *Manager) findDir(root, tag, title string) (string, error) {
	entries, err := afero.ReadDir(m.fs, root)
	if err != nil {
		return "", fmt.Errorf("read library root: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() && strings.Contains(e.Name(), tag) {
			return filepath.Join(root, e.Name()), nil
		}
	}

	want := normalizeForMatch(title)
	bestScore := float32(0)
	bestName := ""
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		got := normalizeForMatch(stripFolderDecorations(e.Name()))
		score := edlib.JaroWinklerSimilarity(want, got)
		if score > bestScore {
			bestScore = score
			bestName = e.Name()
		}
	}
	if bestScore >= fuzzyThreshold {
		m.log.Debug("fuzzy folder match", "title", title, "folder", bestName, "score", bestScore)
		return filepath.Join(root, bestName), nil
	}
	return "", fmt.Errorf("no folder for %q under %s", title, root)
}
