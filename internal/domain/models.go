package domain

import (
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry describes what to traverse: a repository coordinate plus the
// suffix filters applied to file names. Entries are immutable once built.
type Entry struct {
	owner    string
	repo     string
	path     string
	suffixes []string
}

// Owner returns the repository owner
func (e Entry) Owner() string { return e.owner }

// Repo returns the repository name
func (e Entry) Repo() string { return e.repo }

// Path returns the starting directory, empty for the repository root
func (e Entry) Path() string { return e.path }

// Suffixes returns a copy of the suffix filters
func (e Entry) Suffixes() []string {
	out := make([]string, len(e.suffixes))
	copy(out, e.suffixes)
	return out
}

// Repository returns the "owner/repo" form used in logs and errors
func (e Entry) Repository() string {
	return e.owner + "/" + e.repo
}

// CacheKey identifies the cache slot of this entry. Only owner and repo
// take part; path and suffixes are ignored.
func (e Entry) CacheKey() string {
	return e.owner + ":" + e.repo
}

// Accepts reports whether a file name passes the suffix filters.
// With no filters every file is accepted.
func (e Entry) Accepts(name string) bool {
	if len(e.suffixes) == 0 {
		return true
	}
	for _, suffix := range e.suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Equal compares owner, repo and path
func (e Entry) Equal(other Entry) bool {
	return e.owner == other.owner && e.repo == other.repo && e.path == other.path
}

func (e Entry) String() string {
	return fmt.Sprintf("Entry{owner=%q, repo=%q, path=%q}", e.owner, e.repo, e.path)
}

// EntryBuilder builds an Entry fluently
type EntryBuilder struct {
	owner    string
	repo     string
	path     string
	suffixes []string
}

// NewEntryBuilder returns an empty builder
func NewEntryBuilder() *EntryBuilder {
	return &EntryBuilder{}
}

// Owner sets the repository owner
func (b *EntryBuilder) Owner(owner string) *EntryBuilder {
	b.owner = owner
	return b
}

// Repo sets the repository name
func (b *EntryBuilder) Repo(repo string) *EntryBuilder {
	b.repo = repo
	return b
}

// Path sets the starting directory
func (b *EntryBuilder) Path(path string) *EntryBuilder {
	b.path = path
	return b
}

// Suffixes replaces the suffix filters
func (b *EntryBuilder) Suffixes(suffixes ...string) *EntryBuilder {
	b.suffixes = append([]string(nil), suffixes...)
	return b
}

// Build validates the builder and returns the Entry
func (b *EntryBuilder) Build() (Entry, error) {
	owner := strings.TrimSpace(b.owner)
	repo := strings.TrimSpace(b.repo)
	if owner == "" {
		return Entry{}, NewValidationError("owner", "must not be empty")
	}
	if repo == "" {
		return Entry{}, NewValidationError("repo", "must not be empty")
	}

	suffixes := make([]string, 0, len(b.suffixes))
	for _, s := range b.suffixes {
		if s != "" {
			suffixes = append(suffixes, s)
		}
	}

	return Entry{
		owner:    owner,
		repo:     repo,
		path:     strings.Trim(b.path, "/"),
		suffixes: suffixes,
	}, nil
}

// DirectEntry builds an Entry without suffix filters
func DirectEntry(owner, repo, path string) (Entry, error) {
	return NewEntryBuilder().Owner(owner).Repo(repo).Path(path).Build()
}

// Result is the flat path to content mapping produced by one traversal.
// It is read-only; use ResultBuilder to assemble one.
type Result struct {
	keys   []string
	values map[string]string
}

// NewResult constructs a Result from path/content pairs given as
// alternating arguments. A trailing path without content is ignored.
func NewResult(pairs ...string) *Result {
	b := NewResultBuilder()
	for i := 0; i+1 < len(pairs); i += 2 {
		b.Put(pairs[i], pairs[i+1])
	}
	return b.Build()
}

// ResultFromMap constructs a Result from a map. Keys are sorted so
// iteration stays deterministic.
func ResultFromMap(m map[string]string) *Result {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := NewResultBuilder()
	for _, k := range keys {
		b.Put(k, m[k])
	}
	return b.Build()
}

// Len returns the number of files
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Get returns the content stored for a path
func (r *Result) Get(path string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.values[path]
	return v, ok
}

// Keys returns the paths in insertion order
func (r *Result) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// All iterates over (path, content) pairs in insertion order
func (r *Result) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if r == nil {
			return
		}
		for _, k := range r.keys {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}

// Range calls fn for every pair until fn returns false
func (r *Result) Range(fn func(path, content string) bool) {
	for k, v := range r.All() {
		if !fn(k, v) {
			return
		}
	}
}

// ToMap returns a copy of the mapping
func (r *Result) ToMap() map[string]string {
	out := make(map[string]string, r.Len())
	for k, v := range r.All() {
		out[k] = v
	}
	return out
}

// FilePair is the serialized form of one result entry
type FilePair struct {
	Path    string `json:"path" yaml:"path"`
	Content string `json:"content" yaml:"content"`
}

// Pairs returns the entries as an ordered slice
func (r *Result) Pairs() []FilePair {
	out := make([]FilePair, 0, r.Len())
	for k, v := range r.All() {
		out = append(out, FilePair{Path: k, Content: v})
	}
	return out
}

// ResultFromPairs rebuilds a Result from its serialized form
func ResultFromPairs(pairs []FilePair) *Result {
	b := NewResultBuilder()
	for _, p := range pairs {
		b.Put(p.Path, p.Content)
	}
	return b.Build()
}

// MarshalJSON encodes the result as a JSON object in insertion order
func (r *Result) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		sb.Write(key)
		sb.WriteByte(':')
		sb.Write(val)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// MarshalYAML encodes the result as a YAML mapping in insertion order
func (r *Result) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for k, v := range r.All() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
		)
	}
	return node, nil
}

// ResultBuilder accumulates files during a walk
type ResultBuilder struct {
	keys   []string
	values map[string]string
}

// NewResultBuilder returns an empty builder
func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{values: make(map[string]string)}
}

// Put stores content under path. An existing path keeps its position and
// takes the new content.
func (b *ResultBuilder) Put(path, content string) {
	if _, exists := b.values[path]; !exists {
		b.keys = append(b.keys, path)
	}
	b.values[path] = content
}

// Merge copies every pair of r into the builder; r wins on collisions
func (b *ResultBuilder) Merge(r *Result) {
	for k, v := range r.All() {
		b.Put(k, v)
	}
}

// Len returns the number of accumulated files
func (b *ResultBuilder) Len() int {
	return len(b.keys)
}

// Build returns an immutable snapshot of the accumulated files
func (b *ResultBuilder) Build() *Result {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	values := make(map[string]string, len(b.values))
	for k, v := range b.values {
		values[k] = v
	}
	return &Result{keys: keys, values: values}
}

// EntryType classifies a directory listing item
type EntryType string

const (
	EntryTypeFile EntryType = "file"
	EntryTypeDir  EntryType = "dir"
)

// DirEntry is one item of a contents listing
type DirEntry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Type        EntryType `json:"type"`
	DownloadURL string    `json:"download_url"`
}

// IsFile reports whether the item is a file
func (d DirEntry) IsFile() bool { return d.Type == EntryTypeFile }

// IsDir reports whether the item is a directory
func (d DirEntry) IsDir() bool { return d.Type == EntryTypeDir }

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Status      string
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Message returns the reason phrase of the status
func (r *Response) Message() string {
	if _, reason, ok := strings.Cut(r.Status, " "); ok && reason != "" {
		return reason
	}
	if text := http.StatusText(r.StatusCode); text != "" {
		return text
	}
	return r.Status
}
