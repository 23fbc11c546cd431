package contents

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// RepoRef is a repository coordinate parsed from user input
type RepoRef struct {
	Owner string
	Repo  string
	Path  string
}

var (
	githubURLPattern  = regexp.MustCompile(`^(?:https?://)?(?:www\.)?github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/(.*))?$`)
	sshURLPattern     = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)
	treeSuffixPattern = regexp.MustCompile(`^(?:tree|blob)/[^/]+(?:/(.+))?$`)
	shorthandPattern  = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)(?:/(.*))?$`)
)

// ParseRepository accepts "owner/repo", "owner/repo/sub/dir", GitHub
// web URLs (including /tree/<ref>/<path> views) and SSH remotes.
func ParseRepository(raw string) (*RepoRef, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" {
		return nil, fmt.Errorf("empty repository reference")
	}

	if m := sshURLPattern.FindStringSubmatch(raw); m != nil {
		return &RepoRef{Owner: m[1], Repo: m[2]}, nil
	}

	if m := githubURLPattern.FindStringSubmatch(raw); m != nil {
		ref := &RepoRef{Owner: m[1], Repo: m[2]}
		if rest := m[3]; rest != "" {
			if tm := treeSuffixPattern.FindStringSubmatch(rest); tm != nil {
				ref.Path = NormalizePath(tm[1])
			} else {
				return nil, fmt.Errorf("unsupported GitHub URL format: %s", raw)
			}
		}
		return ref, nil
	}

	if strings.Contains(raw, "://") {
		return nil, fmt.Errorf("unsupported repository URL: %s", raw)
	}

	if m := shorthandPattern.FindStringSubmatch(raw); m != nil {
		return &RepoRef{Owner: m[1], Repo: strings.TrimSuffix(m[2], ".git"), Path: NormalizePath(m[3])}, nil
	}

	return nil, fmt.Errorf("unsupported repository reference: %s", raw)
}

// NormalizePath unescapes a repository path, converts backslashes and
// trims surrounding slashes. "." and ".." segments are dropped.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	path = strings.ReplaceAll(path, "\\", "/")

	parts := strings.Split(path, "/")
	kept := parts[:0]
	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			if len(kept) > 0 {
				kept = kept[:len(kept)-1]
			}
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "/")
}
