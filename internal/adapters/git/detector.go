// Package git provides git context detection using go-git. The current
// branch is attached to a task when it becomes active, so the plan keeps
// a record of what you were working on.
package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Detector resolves the git branch of a working directory.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

// CurrentBranch returns the branch checked out in the repository that
// contains workingDir, or an empty string when there is none.
func (d *Detector) CurrentBranch(workingDir string) (string, error) {
	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repoPath, err := findGitRepo(workingDir)
	if err != nil {
		return "", fmt.Errorf("git repository not found: %w", err)
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	branch := head.Name().Short()
	if branch == "HEAD" {
		branch = "HEAD detached"
	}
	return branch, nil
}

// IsAvailable checks if the working directory sits inside a repository.
func (d *Detector) IsAvailable() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}
	_, err = findGitRepo(cwd)
	return err == nil
}

// findGitRepo traverses up the directory tree to find a .git directory.
func findGitRepo(startPath string) (string, error) {
	currentPath := startPath

	for {
		gitPath := filepath.Join(currentPath, ".git")
		info, err := os.Stat(gitPath)
		if err == nil && info.IsDir() {
			return currentPath, nil
		}

		// A plain .git file is a worktree reference.
		if err == nil && !info.IsDir() {
			content, err := os.ReadFile(gitPath)
			if err == nil && strings.HasPrefix(string(content), "gitdir: ") {
				return currentPath, nil
			}
		}

		parent := filepath.Dir(currentPath)
		if parent == currentPath {
			break
		}
		currentPath = parent
	}

	return "", fmt.Errorf("no .git directory found")
}
