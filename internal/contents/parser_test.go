package contents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RepoRef
	}{
		{"shorthand", "Clouke/github-traverse", RepoRef{Owner: "Clouke", Repo: "github-traverse"}},
		{"shorthand with path", "o/r/src/main/java", RepoRef{Owner: "o", Repo: "r", Path: "src/main/java"}},
		{"shorthand git suffix", "o/r.git", RepoRef{Owner: "o", Repo: "r"}},
		{"https", "https://github.com/o/r", RepoRef{Owner: "o", Repo: "r"}},
		{"https trailing slash", "https://github.com/o/r/", RepoRef{Owner: "o", Repo: "r"}},
		{"https git suffix", "https://github.com/o/r.git", RepoRef{Owner: "o", Repo: "r"}},
		{"no scheme", "github.com/o/r", RepoRef{Owner: "o", Repo: "r"}},
		{"tree url", "https://github.com/o/r/tree/main/docs/guide", RepoRef{Owner: "o", Repo: "r", Path: "docs/guide"}},
		{"tree url root", "https://github.com/o/r/tree/main", RepoRef{Owner: "o", Repo: "r"}},
		{"blob url", "https://github.com/o/r/blob/v1.0/README.md", RepoRef{Owner: "o", Repo: "r", Path: "README.md"}},
		{"escaped path", "https://github.com/o/r/tree/main/my%20docs", RepoRef{Owner: "o", Repo: "r", Path: "my docs"}},
		{"ssh", "git@github.com:o/r.git", RepoRef{Owner: "o", Repo: "r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseRepository(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *ref)
		})
	}
}

func TestParseRepository_Errors(t *testing.T) {
	for _, input := range []string{
		"",
		"justaname",
		"https://gitlab.com/o/r",
		"https://github.com/o/r/issues/1",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseRepository(input)
			assert.Error(t, err)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"/docs/", "docs"},
		{"docs\\api", "docs/api"},
		{"./docs//api/", "docs/api"},
		{"docs/../src", "src"},
		{"a%2Fb", "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePath(tt.input))
		})
	}
}

func TestListingURL(t *testing.T) {
	assert.Equal(t, "https://api.github.com/repos/o/r/contents/", ListingURL("", "o", "r", ""))
	assert.Equal(t, "http://localhost:9090/repos/o/r/contents/src/main", ListingURL("http://localhost:9090/", "o", "r", "/src/main"))
	assert.Equal(t, "https://api.github.com/repos/o/r/contents/my%20dir/a%23b", ListingURL(DefaultBaseURL, "o", "r", "my dir/a#b"))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "src", JoinPath("", "src"))
	assert.Equal(t, "src/main", JoinPath("src", "main"))
	assert.Equal(t, "src/main", JoinPath("/src/", "main"))
}
