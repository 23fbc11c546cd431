// Package walker implements the depth-first directory traversal that
// turns a repository listing into a flat name to content mapping.
package walker

import (
	"context"
	"errors"

	"github.com/quantmind-br/gtraverse-go/internal/contents"
	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrName = "github.com/quantmind-br/gtraverse-go/internal/walker"

const (
	// Unlimited recurses until no subdirectories remain
	Unlimited = -1
	// DefaultDepthLimit is the hard recursion ceiling
	DefaultDepthLimit = 64
)

// Ensure Walker implements domain.Traverser
var _ domain.Traverser = (*Walker)(nil)

var errMissingDownloadURL = errors.New("file entry has no download_url")

// FileObserver is notified after each file is fetched
type FileObserver func(path string, size int)

// Options configures a Walker
type Options struct {
	// MaxDepth is how many directory levels below the start to descend.
	// 0 lists the start directory only; Unlimited follows every subdirectory.
	MaxDepth int
	// DepthLimit aborts the walk with domain.ErrDepthLimit when exceeded.
	// Zero selects DefaultDepthLimit.
	DepthLimit int
	OnFile     FileObserver
	Logger     *utils.Logger
	// TracerProvider receives the walker.list spans. Nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// Walker traverses one repository at a time. It holds no per-walk state
// and is safe for concurrent use.
type Walker struct {
	lister     domain.Lister
	fetcher    domain.ContentFetcher
	maxDepth   int
	depthLimit int
	onFile     FileObserver
	logger     *utils.Logger
	tracer     trace.Tracer
}

// New creates a Walker
func New(lister domain.Lister, fetcher domain.ContentFetcher, opts Options) *Walker {
	if opts.DepthLimit <= 0 {
		opts.DepthLimit = DefaultDepthLimit
	}
	if opts.MaxDepth < Unlimited {
		opts.MaxDepth = Unlimited
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	return &Walker{
		lister:     lister,
		fetcher:    fetcher,
		maxDepth:   opts.MaxDepth,
		depthLimit: opts.DepthLimit,
		onFile:     opts.OnFile,
		logger:     opts.Logger.WithComponent("walker"),
		tracer:     opts.TracerProvider.Tracer(instrName),
	}
}

// MaxDepth returns the configured recursion depth
func (w *Walker) MaxDepth() int {
	return w.maxDepth
}

// Walk lists entry.Path() and everything below it, fetching the files
// accepted by the entry filters. Files are keyed by base name; a later
// file with the same name replaces an earlier one. Any failure aborts the
// walk with a *domain.WalkError and no partial result.
func (w *Walker) Walk(ctx context.Context, entry domain.Entry) (*domain.Result, error) {
	logger := w.logger.WithRepository(entry.Repository())
	acc := domain.NewResultBuilder()

	if err := w.walkDir(ctx, logger, entry, entry.Path(), 0, acc); err != nil {
		logger.Debug().Err(err).Msg("Walk aborted")
		return nil, err
	}

	logger.Debug().
		Str("path", entry.Path()).
		Int("files", acc.Len()).
		Msg("Walk complete")
	return acc.Build(), nil
}

func (w *Walker) walkDir(ctx context.Context, logger *utils.Logger, entry domain.Entry, dir string, depth int, acc *domain.ResultBuilder) error {
	ctx, span := w.tracer.Start(ctx, "walker.list",
		trace.WithAttributes(
			attribute.String("repository", entry.Repository()),
			attribute.String("path", dir),
			attribute.Int("depth", depth),
		),
	)
	defer span.End()

	fail := func(path string, err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.NewWalkError(entry.Repository(), path, err)
	}

	if err := ctx.Err(); err != nil {
		return fail(dir, err)
	}

	items, err := w.lister.List(ctx, entry.Owner(), entry.Repo(), dir)
	if err != nil {
		return fail(dir, err)
	}
	span.SetAttributes(attribute.Int("items", len(items)))

	for _, item := range items {
		child := contents.JoinPath(dir, item.Name)

		switch {
		case item.IsFile():
			if !entry.Accepts(item.Name) {
				continue
			}
			if item.DownloadURL == "" {
				return fail(child, domain.NewParseError(child, errMissingDownloadURL))
			}

			content, err := w.fetcher.Fetch(ctx, item.DownloadURL)
			if err != nil {
				return fail(child, err)
			}
			acc.Put(item.Name, content)

			if w.onFile != nil {
				w.onFile(child, len(content))
			}

		case item.IsDir():
			if !w.descends(depth) {
				continue
			}
			if depth+1 > w.depthLimit {
				return fail(child, domain.ErrDepthLimit)
			}
			// Errors from below are already WalkErrors
			if err := w.walkDir(ctx, logger, entry, child, depth+1, acc); err != nil {
				span.SetStatus(codes.Error, "subdirectory failed")
				return err
			}

		default:
			logger.Debug().
				Str("path", child).
				Str("type", string(item.Type)).
				Msg("Skipping entry")
		}
	}

	return nil
}

// descends reports whether subdirectories found at depth are followed
func (w *Walker) descends(depth int) bool {
	return w.maxDepth == Unlimited || depth < w.maxDepth
}
