// Package sitelink ties a working directory to a server origin through a
// small file, so one checkout can talk to a test server and another to
// production.
package sitelink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rogersnm/fieldwork/internal/config"
)

const FileName = ".fieldwork-origin"

// Link is an origin read from the link file in Dir.
type Link struct {
	Origin string
	Dir    string
}

// Path is the link file the origin came from.
func (l *Link) Path() string {
	return filepath.Join(l.Dir, FileName)
}

// Find walks up from startDir to the nearest link file. It returns nil when
// there is none, and an error naming the file when the nearest one does not
// hold a usable origin.
func Find(startDir string) (*Link, error) {
	dir := startDir
	for {
		l, err := Read(dir)
		if err != nil || l != nil {
			return l, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Read returns the link in dir, or nil if dir has no link file. An empty
// file counts as no link.
func Read(dir string) (*Link, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	origin := strings.TrimSpace(string(data))
	if origin == "" {
		return nil, nil
	}
	if err := config.CheckOrigin(origin); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Link{Origin: strings.TrimRight(origin, "/"), Dir: dir}, nil
}

// Write links dir to origin after checking it.
func Write(dir, origin string) (*Link, error) {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if err := config.CheckOrigin(origin); err != nil {
		return nil, err
	}
	l := &Link{Origin: origin, Dir: dir}
	if err := os.WriteFile(l.Path(), []byte(origin+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", l.Path(), err)
	}
	return l, nil
}

// Remove deletes the link file in dir. It reports false when there was none.
func Remove(dir string) (bool, error) {
	err := os.Remove(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
