package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEntryBuilder_Build(t *testing.T) {
	tests := []struct {
		name      string
		builder   *EntryBuilder
		wantField string
		check     func(t *testing.T, e Entry)
	}{
		{
			name:    "defaults",
			builder: NewEntryBuilder().Owner("Clouke").Repo("github-traverse"),
			check: func(t *testing.T, e Entry) {
				assert.Equal(t, "Clouke", e.Owner())
				assert.Equal(t, "github-traverse", e.Repo())
				assert.Empty(t, e.Path())
				assert.Empty(t, e.Suffixes())
			},
		},
		{
			name:    "path slashes are trimmed",
			builder: NewEntryBuilder().Owner("o").Repo("r").Path("/src/main/"),
			check: func(t *testing.T, e Entry) {
				assert.Equal(t, "src/main", e.Path())
			},
		},
		{
			name:    "empty suffixes dropped",
			builder: NewEntryBuilder().Owner("o").Repo("r").Suffixes(".java", "", ".kt"),
			check: func(t *testing.T, e Entry) {
				assert.Equal(t, []string{".java", ".kt"}, e.Suffixes())
			},
		},
		{
			name:      "missing owner",
			builder:   NewEntryBuilder().Repo("r"),
			wantField: "owner",
		},
		{
			name:      "blank repo",
			builder:   NewEntryBuilder().Owner("o").Repo("   "),
			wantField: "repo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := tt.builder.Build()
			if tt.wantField != "" {
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, tt.wantField, vErr.Field)
				return
			}
			require.NoError(t, err)
			tt.check(t, entry)
		})
	}
}

func TestEntry_SuffixesIsCopy(t *testing.T) {
	entry, err := NewEntryBuilder().Owner("o").Repo("r").Suffixes(".go").Build()
	require.NoError(t, err)

	s := entry.Suffixes()
	s[0] = ".mutated"
	assert.Equal(t, []string{".go"}, entry.Suffixes())
}

func TestEntry_CacheKeyIgnoresPathAndFilters(t *testing.T) {
	a, err := NewEntryBuilder().Owner("o").Repo("r").Path("a").Suffixes(".java").Build()
	require.NoError(t, err)
	b, err := NewEntryBuilder().Owner("o").Repo("r").Path("b").Suffixes(".md").Build()
	require.NoError(t, err)

	assert.Equal(t, "o:r", a.CacheKey())
	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.False(t, a.Equal(b))
}

func TestEntry_Accepts(t *testing.T) {
	all, _ := DirectEntry("o", "r", "")
	java, _ := NewEntryBuilder().Owner("o").Repo("r").Suffixes(".java", ".kt").Build()

	tests := []struct {
		name     string
		entry    Entry
		file     string
		expected bool
	}{
		{"no filters accepts anything", all, "README", true},
		{"matching suffix", java, "Main.java", true},
		{"second suffix", java, "App.kt", true},
		{"non matching", java, "README.md", false},
		{"suffix must be at the end", java, "Main.java.bak", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.Accepts(tt.file))
		})
	}
}

func TestEntry_String(t *testing.T) {
	entry, err := DirectEntry("o", "r", "p")
	require.NoError(t, err)
	assert.Equal(t, `Entry{owner="o", repo="r", path="p"}`, entry.String())
	assert.Equal(t, "o/r", entry.Repository())
}

func TestResultBuilder_PutKeepsPosition(t *testing.T) {
	b := NewResultBuilder()
	b.Put("a", "1")
	b.Put("b", "2")
	b.Put("a", "3")

	r := b.Build()
	assert.Equal(t, []string{"a", "b"}, r.Keys())
	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestResultBuilder_BuildIsSnapshot(t *testing.T) {
	b := NewResultBuilder()
	b.Put("a", "1")
	r := b.Build()
	b.Put("b", "2")

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 2, b.Len())
}

func TestResultBuilder_Merge(t *testing.T) {
	b := NewResultBuilder()
	b.Put("Index.md", "first")
	b.Merge(NewResult("Index.md", "second", "B.java", "b"))

	r := b.Build()
	v, _ := r.Get("Index.md")
	assert.Equal(t, "second", v)
	assert.Equal(t, 2, r.Len())
}

func TestNewResult_OddPairs(t *testing.T) {
	r := NewResult("a", "1", "dangling")
	assert.Equal(t, 1, r.Len())
}

func TestResultFromMap_SortedKeys(t *testing.T) {
	r := ResultFromMap(map[string]string{"b": "2", "a": "1", "c": "3"})
	assert.Equal(t, []string{"a", "b", "c"}, r.Keys())
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, r.ToMap())
}

func TestResult_NilSafe(t *testing.T) {
	var r *Result
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Keys())
	_, ok := r.Get("x")
	assert.False(t, ok)
	assert.Empty(t, r.ToMap())
}

func TestResult_RangeStops(t *testing.T) {
	r := NewResult("a", "1", "b", "2", "c", "3")
	var seen []string
	r.Range(func(path, _ string) bool {
		seen = append(seen, path)
		return path != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestResult_MarshalJSONOrdered(t *testing.T) {
	r := NewResult("z.md", "last", "a.md", "first \"quoted\"")
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z.md":"last","a.md":"first \"quoted\""}`, string(data))

	empty, err := json.Marshal(NewResult())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestResult_MarshalYAMLOrdered(t *testing.T) {
	r := NewResult("z.md", "last", "a.md", "first")
	data, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, "z.md: last\na.md: first\n", string(data))

	numeric, err := yaml.Marshal(NewResult("VERSION", "123"))
	require.NoError(t, err)
	assert.Equal(t, "VERSION: \"123\"\n", string(numeric))
}

func TestResult_Pairs(t *testing.T) {
	r := NewResult("a", "1", "b", "2")
	pairs := r.Pairs()
	assert.Equal(t, []FilePair{{Path: "a", Content: "1"}, {Path: "b", Content: "2"}}, pairs)
	assert.Equal(t, r.Keys(), ResultFromPairs(pairs).Keys())
}

func TestDirEntry_Unmarshal(t *testing.T) {
	body := `[
		{"name":"A.java","path":"A.java","type":"file","download_url":"https://raw/A.java"},
		{"name":"pkg","path":"pkg","type":"dir","download_url":null},
		{"name":"link","path":"link","type":"symlink"}
	]`
	var items []DirEntry
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	require.Len(t, items, 3)

	assert.True(t, items[0].IsFile())
	assert.Equal(t, "https://raw/A.java", items[0].DownloadURL)
	assert.True(t, items[1].IsDir())
	assert.Empty(t, items[1].DownloadURL)
	assert.False(t, items[2].IsFile())
	assert.False(t, items[2].IsDir())
}

func TestResponse_Message(t *testing.T) {
	tests := []struct {
		name     string
		resp     Response
		expected string
	}{
		{"reason phrase from status", Response{StatusCode: 404, Status: "404 Not Found"}, "Not Found"},
		{"status text fallback", Response{StatusCode: 403}, "Forbidden"},
		{"unknown code", Response{StatusCode: 599, Status: "599"}, "599"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resp.Message())
		})
	}
	assert.True(t, (&Response{StatusCode: 204}).IsSuccess())
	assert.False(t, (&Response{StatusCode: 301}).IsSuccess())
}
