// Package config locates named configuration resources, such as XML table
// fixtures shared between tools, against a search path.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siwire/siwire/errs"
)

// PathEnv is the environment variable holding extra search directories,
// separated by the platform's list separator.
const PathEnv = "SIWIRE_PATH"

// SearchFile resolves a resource name to an existing file path. A name with
// a directory component is only checked as given. A bare name is searched,
// in order, in the explicit dirs, the working directory, the directories of
// PathEnv, and the executable's directory. Missing resources are an
// errs.ErrResourceNotFound error, never a panic.
func SearchFile(name string, dirs ...string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty resource name: %w", errs.ErrResourceNotFound)
	}

	if strings.ContainsRune(name, os.PathSeparator) || filepath.IsAbs(name) {
		if fileExists(name) {
			return name, nil
		}

		return "", fmt.Errorf("resource %s: %w", name, errs.ErrResourceNotFound)
	}

	search := append([]string{}, dirs...)
	search = append(search, ".")
	if env := os.Getenv(PathEnv); env != "" {
		search = append(search, filepath.SplitList(env)...)
	}
	if exe, err := os.Executable(); err == nil {
		search = append(search, filepath.Dir(exe))
	}

	for _, dir := range search {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path, nil
		}
	}

	return "", fmt.Errorf("resource %s not in search path: %w", name, errs.ErrResourceNotFound)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
