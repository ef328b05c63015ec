package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kendall-kelly/design-orders-panel/models"
)

// ParseError reports a stored value that could not be decoded
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stored %q is not valid JSON: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Local reads and writes the panel's JSON values on top of a Store.
// Corrupt values read as absent; only backend failures are returned.
type Local struct {
	store  Store
	logger *zap.Logger
}

// NewLocal wraps store. A nil logger discards parse warnings.
func NewLocal(store Store, logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{store: store, logger: logger}
}

// Store returns the underlying byte store
func (l *Local) Store() Store {
	return l.store
}

// Records reads the JSON array stored at key. A missing key, an empty value,
// or a value that is not an array of objects all yield an empty slice.
// Array elements that are not objects are skipped.
func (l *Local) Records(ctx context.Context, key string) ([]models.Record, error) {
	data, err := l.read(ctx, key)
	if err != nil || data == nil {
		return []models.Record{}, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		l.warnParse(&ParseError{Key: key, Err: err})
		return []models.Record{}, nil
	}

	records := make([]models.Record, 0, len(items))
	skipped := 0
	for _, item := range items {
		var rec models.Record
		if err := json.Unmarshal(item, &rec); err != nil || rec == nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		l.logger.Warn("Skipped non-object entries in stored collection",
			zap.String("key", key), zap.Int("skipped", skipped))
	}
	return records, nil
}

// SetRecords serializes v and overwrites key
func (l *Local) SetRecords(ctx context.Context, key string, v any) error {
	return l.SetJSON(ctx, key, v)
}

// GetJSON decodes the value at key into dest. It reports false when the key
// is missing or the value does not decode.
func (l *Local) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := l.read(ctx, key)
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		l.warnParse(&ParseError{Key: key, Err: err})
		return false, nil
	}
	return true, nil
}

// SetJSON serializes v and overwrites key
func (l *Local) SetJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return l.store.Set(ctx, key, data)
}

// GetString returns the raw value at key, or "" when missing
func (l *Local) GetString(ctx context.Context, key string) (string, error) {
	data, err := l.read(ctx, key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetString stores value verbatim
func (l *Local) SetString(ctx context.Context, key, value string) error {
	return l.store.Set(ctx, key, []byte(value))
}

// Flag reports whether key holds the literal "true"
func (l *Local) Flag(ctx context.Context, key string) (bool, error) {
	value, err := l.GetString(ctx, key)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// SetFlag stores "true" at key, or removes key when on is false
func (l *Local) SetFlag(ctx context.Context, key string, on bool) error {
	if !on {
		return l.store.Delete(ctx, key)
	}
	return l.SetString(ctx, key, "true")
}

// Remove deletes every key, stopping at the first failure
func (l *Local) Remove(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := l.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (l *Local) read(ctx context.Context, key string) ([]byte, error) {
	data, err := l.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return data, nil
}

func (l *Local) warnParse(err *ParseError) {
	l.logger.Warn("Ignoring unreadable stored value", zap.String("key", err.Key), zap.Error(err.Err))
}
