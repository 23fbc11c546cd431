package contents

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the public GitHub REST endpoint
const DefaultBaseURL = "https://api.github.com"

// ListingURL builds the contents endpoint for one directory.
// Path segments are escaped individually; the root yields ".../contents/".
func ListingURL(baseURL, owner, repo, path string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(baseURL, "/"))
	sb.WriteString("/repos/")
	sb.WriteString(url.PathEscape(owner))
	sb.WriteByte('/')
	sb.WriteString(url.PathEscape(repo))
	sb.WriteString("/contents/")

	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(url.PathEscape(seg))
	}
	return sb.String()
}

// JoinPath appends a child name to a directory path relative to the
// repository root. JoinPath("", "src") is "src", never "/src".
func JoinPath(dir, name string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
