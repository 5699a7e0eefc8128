package gitinfo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Branch reports the current branch for the repository containing path,
// or "" when path is not inside a working tree. A detached HEAD is
// reported as "detached:<short-sha>".
func Branch(path string) string {
	gitDir := findGitDir(path)
	if gitDir == "" {
		return ""
	}
	branch, err := readHead(gitDir)
	if err != nil {
		return ""
	}
	return branch
}

// Root returns the working tree root for path, or "".
func Root(path string) string {
	gitDir := findGitDir(path)
	if gitDir == "" {
		return ""
	}
	return filepath.Dir(gitDir)
}

// findGitDir walks up from path looking for a .git directory. A .git
// file (worktrees, submodules) is resolved through its gitdir pointer.
func findGitDir(path string) string {
	start := path
	info, err := os.Stat(start)
	if err != nil {
		return ""
	}
	if !info.IsDir() {
		start = filepath.Dir(start)
	}
	for {
		gitPath := filepath.Join(start, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath
			}
			if info.Mode().IsRegular() {
				if dir := readGitFilePointer(gitPath, start); dir != "" {
					return dir
				}
			}
		}
		parent := filepath.Dir(start)
		if parent == start {
			return ""
		}
		start = parent
	}
}

func readGitFilePointer(gitPath, base string) string {
	data, err := os.ReadFile(gitPath)
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(line, prefix) {
		return ""
	}
	dir := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	return dir
}

func readHead(gitDir string) (string, error) {
	f, err := os.Open(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", errors.New("empty HEAD")
	}
	line := strings.TrimSpace(scanner.Text())
	const refPrefix = "ref:"
	if strings.HasPrefix(line, refPrefix) {
		ref := strings.TrimSpace(strings.TrimPrefix(line, refPrefix))
		return filepath.Base(ref), nil
	}
	if len(line) >= 7 {
		return "detached:" + line[:7], nil
	}
	return "detached", nil
}
