package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/vadiminshakov/stocker/pkg/retrier"
	"go.uber.org/zap"
)

const (
	BackendJSON   = "json"
	BackendFile   = "file"
	BackendWAL    = "wal"
	BackendMemory = "memory"
)

// Opened is a store together with the backend that produced it.
type Opened struct {
	Backend string
	Store   Store
	close   func() error
}

// Close releases backend resources.
func (o *Opened) Close() error {
	if o == nil || o.close == nil {
		return nil
	}
	return o.close()
}

// Open returns a store for the provided backend spec.
// Examples:
//   - "json:data/portfolio.json"
//   - "wal:data/journal"
//   - "memory"
//
// A spec without a backend prefix is treated as a json file path.
func Open(ctx context.Context, spec string, l *zap.Logger) (*Opened, error) {
	if l == nil {
		l = zap.NewNop()
	}
	backend, arg := parseSpec(spec)

	r := retrier.New(retrier.OnRetry(func(attempt int, err error) {
		l.Warn("retrying storage open", zap.String("backend", backend), zap.Int("attempt", attempt), zap.Error(err))
	}))

	switch backend {
	case BackendMemory:
		return &Opened{Backend: BackendMemory, Store: NewMemoryStore()}, nil
	case BackendJSON, BackendFile:
		fs, err := retrier.DoWithData(r, ctx, func(context.Context) (*FileStore, error) {
			return NewFileStore(arg, l)
		})
		if err != nil {
			return nil, err
		}
		return &Opened{Backend: BackendJSON, Store: fs}, nil
	case BackendWAL:
		js, err := retrier.DoWithData(r, ctx, func(context.Context) (*JournalStore, error) {
			return NewJournalStore(arg, l)
		})
		if err != nil {
			return nil, err
		}
		return &Opened{Backend: BackendWAL, Store: js, close: js.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}

func parseSpec(spec string) (backend, arg string) {
	if spec == "" {
		return BackendJSON, DefaultFile
	}

	if !strings.Contains(spec, ":") {
		backend = strings.ToLower(spec)
		switch backend {
		case BackendMemory:
			return backend, ""
		case BackendJSON, BackendFile:
			return BackendJSON, DefaultFile
		case BackendWAL:
			return BackendWAL, DefaultJournalDir
		default:
			return BackendJSON, spec
		}
	}

	parts := strings.SplitN(spec, ":", 2)
	return strings.ToLower(parts[0]), parts[1]
}
