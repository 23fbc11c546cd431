package traverse

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/quantmind-br/gtraverse-go/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrName = "github.com/quantmind-br/gtraverse-go/pkg/traverse"

// Session dispatches reads onto a worker pool and caches their results
type Session struct {
	cache     Cache
	traverser Traverser
	executor  *utils.Executor
	logger    *utils.Logger
	lookups   metric.Int64Counter
	closers   []io.Closer
	closeOnce sync.Once
	closeErr  error
}

func newSession(c Cache, t Traverser, workers int, logger *utils.Logger, mp metric.MeterProvider, closers []io.Closer) *Session {
	s := &Session{
		cache:     c,
		traverser: t,
		logger:    logger.WithComponent("session"),
		closers:   closers,
	}
	s.executor = utils.NewExecutor(workers, func(recovered any) {
		s.logger.Error().Err(utils.RecoveredError(recovered)).Msg("Read task panicked")
	})

	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	lookups, err := mp.Meter(instrName).Int64Counter("gtraverse.cache.lookups",
		metric.WithDescription("Repository cache lookups by outcome"))
	if err != nil {
		s.logger.Debug().Err(err).Msg("Cache lookup counter unavailable")
	}
	s.lookups = lookups
	return s
}

// Read traverses entry asynchronously. A failed read resolves to nil and
// the error is discarded; use ReadWithFailure to observe it.
func (s *Session) Read(ctx context.Context, entry Entry) *Future {
	return s.ReadWithFailure(ctx, entry, nil)
}

// ReadWithFailure traverses entry asynchronously. On failure onFailure is
// called once with the error and the future resolves to nil.
//
// ctx supplies values such as trace spans; its cancellation does not
// reach the traversal.
func (s *Session) ReadWithFailure(ctx context.Context, entry Entry, onFailure func(error)) *Future {
	f := newFuture()
	taskCtx := context.WithoutCancel(ctx)

	err := s.executor.Submit(func() {
		var result *Result
		defer func() { f.complete(result) }()
		result = s.run(taskCtx, entry, onFailure)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("repository", entry.Repository()).Msg("Read rejected")
		s.notify(onFailure, err)
		f.complete(nil)
	}
	return f
}

// run converts every failure, panics included, into a nil result
func (s *Session) run(ctx context.Context, entry Entry, onFailure func(error)) (result *Result) {
	logger := s.logger.WithRepository(entry.Repository()).WithSpan(ctx)

	defer func() {
		if r := recover(); r != nil {
			err := utils.RecoveredError(r)
			logger.Error().Err(err).Msg("Read panicked")
			result = nil
			s.notify(onFailure, err)
		}
	}()

	result, err := s.read(ctx, logger, entry)
	if err != nil {
		logger.Debug().Err(err).Msg("Read failed")
		s.notify(onFailure, err)
		return nil
	}
	return result
}

func (s *Session) read(ctx context.Context, logger *utils.Logger, entry Entry) (*Result, error) {
	key := entry.CacheKey()

	if cached, ok := s.cache.Get(ctx, key); ok {
		s.recordLookup(ctx, true)
		logger.Debug().Str("key", key).Int("files", cached.Len()).Msg("Cache hit")
		return cached, nil
	}
	s.recordLookup(ctx, false)

	result, err := s.traverser.Walk(ctx, entry)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = NewResult()
	}

	if err := s.cache.Put(ctx, key, result); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to cache result")
	}

	logger.Debug().Str("key", key).Int("files", result.Len()).Msg("Traversal stored")
	return result, nil
}

func (s *Session) recordLookup(ctx context.Context, hit bool) {
	if s.lookups == nil {
		return
	}
	s.lookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

// notify invokes the failure callback. A panicking callback is logged
// and swallowed.
func (s *Session) notify(onFailure func(error), err error) {
	if onFailure == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Err(utils.RecoveredError(r)).Msg("Failure callback panicked")
		}
	}()
	onFailure(err)
}

// Cache returns the session cache
func (s *Session) Cache() Cache {
	return s.cache
}

// Wait blocks until every read submitted so far has finished
func (s *Session) Wait() {
	s.executor.Wait()
}

// Close waits for in-flight reads, then releases the cache and HTTP
// resources. Reads submitted after Close fail immediately.
func (s *Session) Close() error {
	return s.shutdown(true)
}

// Abandon rejects new reads and releases the cache and HTTP resources
// without waiting for in-flight reads. Those reads may then fail, and
// their futures still resolve. Close after Abandon is a no-op.
func (s *Session) Abandon() error {
	return s.shutdown(false)
}

func (s *Session) shutdown(wait bool) error {
	s.closeOnce.Do(func() {
		if wait {
			s.executor.Close()
		} else {
			s.executor.Stop()
		}

		var errs []error
		if err := s.cache.Close(); err != nil {
			errs = append(errs, err)
		}
		for _, c := range s.closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
