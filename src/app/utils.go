package app

import (
	"path/filepath"
	"regexp"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func ExpandPath(path string) string {
	if len(path) > 1 && path[:2] == "~/" {
		home, _ := homedir.Dir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// isRemote reports whether location should be fetched over HTTP.
func isRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// spriteFileName turns a sprite id into a file name safe on every OS.
func spriteFileName(id string) string {
	name := unsafeFileChars.ReplaceAllString(id, "_")
	name = strings.Trim(name, ".")
	if name == "" {
		name = "_"
	}
	return name + ".png"
}
