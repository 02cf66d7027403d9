// Package headers maintains a local cache of the FMI standard headers,
// cloned from the fmi-standard repository.
package headers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/fmi-build/bd2cmake/internal/msg"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
)

const (
	headersRepoURL = "https://github.com/modelica/fmi-standard.git"
	headersBranch  = "main"
	// subdirectory of the fmi-standard repo holding fmi3Functions.h etc.
	headersSubdir = "headers"
)

// CacheDir returns the per-user cache location for the headers clone.
//
// on windows: %LocalAppData%/bd2cmake/fmi-standard
// on linux: ~/.cache/bd2cmake/fmi-standard
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "bd2cmake", "fmi-standard"), nil
}

// Fetch clones the fmi-standard repository into basePath, or pulls it when
// a clone already exists, and returns the headers directory inside it.
func Fetch(basePath string) (string, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return "", err
	}

	if _, err := os.Stat(filepath.Join(basePath, ".git")); os.IsNotExist(err) {
		fmt.Printf("  %s FMI standard headers\n", color.HiGreenString("Fetching"))
		_, err := git.PlainClone(basePath, &git.CloneOptions{
			URL:           headersRepoURL,
			ReferenceName: plumbing.NewBranchReferenceName(headersBranch),
			SingleBranch:  true,
			Depth:         1,
			Progress:      &msg.IndentWriter{Indent: "    ", W: os.Stdout},
		})
		if err != nil {
			return "", err
		}
	} else {
		repo, err := git.PlainOpen(basePath)
		if err != nil {
			return "", err
		}
		w, err := repo.Worktree()
		if err != nil {
			return "", err
		}
		err = w.Pull(&git.PullOptions{
			RemoteName:    "origin",
			ReferenceName: plumbing.NewBranchReferenceName(headersBranch),
			SingleBranch:  true,
			Depth:         1,
			Progress:      &msg.IndentWriter{Indent: "    ", W: os.Stdout},
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return "", err
		}
	}

	return headersPath(basePath)
}

// Ensure returns the cached headers directory, fetching it first when the
// cache is cold.
func Ensure(basePath string) (string, error) {
	if path, err := headersPath(basePath); err == nil {
		return path, nil
	}
	return Fetch(basePath)
}

func headersPath(basePath string) (string, error) {
	path := filepath.Join(basePath, headersSubdir)
	stat, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !stat.IsDir() {
		return "", fmt.Errorf("%s exists but is not a directory", path)
	}
	return path, nil
}
