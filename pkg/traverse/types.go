package traverse

import (
	"io"
	"time"

	"github.com/quantmind-br/gtraverse-go/internal/cache"
	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
	"github.com/quantmind-br/gtraverse-go/internal/walker"
)

// Request and result types
type (
	Entry         = domain.Entry
	EntryBuilder  = domain.EntryBuilder
	Result        = domain.Result
	ResultBuilder = domain.ResultBuilder
	FilePair      = domain.FilePair
	DirEntry      = domain.DirEntry
)

// Collaborators that can be replaced on the builder
type (
	Cache          = cache.RepositoryCache
	Lister         = domain.Lister
	ContentFetcher = domain.ContentFetcher
	Traverser      = domain.Traverser
	FileObserver   = walker.FileObserver
	Logger         = utils.Logger
)

// Errors reported to failure callbacks
type (
	TransportError    = domain.TransportError
	ListingError      = domain.ListingError
	ContentFetchError = domain.ContentFetchError
	ParseError        = domain.ParseError
	WalkError         = domain.WalkError
	ValidationError   = domain.ValidationError
)

var (
	ErrDepthLimit   = domain.ErrDepthLimit
	ErrInvalidEntry = domain.ErrInvalidEntry
)

// Unlimited disables the MaxDepth bound
const Unlimited = walker.Unlimited

// NewEntryBuilder returns an empty entry builder
func NewEntryBuilder() *EntryBuilder {
	return domain.NewEntryBuilder()
}

// DirectEntry builds an entry without suffix filters
func DirectEntry(owner, repo, path string) (Entry, error) {
	return domain.DirectEntry(owner, repo, path)
}

// NewResult constructs a result from alternating path and content values
func NewResult(pairs ...string) *Result {
	return domain.NewResult(pairs...)
}

// ResultFromMap constructs a result from a map, keys sorted
func ResultFromMap(m map[string]string) *Result {
	return domain.ResultFromMap(m)
}

// NewMemoryCache returns the default in-process cache
func NewMemoryCache(ttl time.Duration) Cache {
	return cache.NewMemory(ttl)
}

// NewLogger returns a zerolog backed logger. format is "pretty" or "json".
func NewLogger(level, format string, w io.Writer) *Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:  level,
		Format: format,
		Output: w,
	})
}
