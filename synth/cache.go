package synth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/maastricht-university/podcast-pipeline/audio"
)

// Cached wraps a Speaker with a BadgerDB store of finished renderings, keyed
// by back-end, voice, rate, pitch and text. Re-running a script after a failure only
// pays for the lines that were not rendered yet.
type Cached struct {
	next    Speaker
	backend string
	db      *badger.DB
	log     logrus.FieldLogger
}

var (
	_ Speaker     = (*Cached)(nil)
	_ VoiceLister = (*Cached)(nil)
)

// CacheOptions configures NewCached.
type CacheOptions struct {
	// Dir is the directory for BadgerDB data files. Required unless InMemory.
	Dir string

	// InMemory runs BadgerDB without disk persistence.
	InMemory bool

	// Backend names the wrapped engine, e.g. "openai/tts-1". Renderings of
	// one back-end are never served for another sharing the same directory.
	Backend string

	Logger logrus.FieldLogger
}

// NewCached opens the cache and wraps next.
func NewCached(next Speaker, opts CacheOptions) (*Cached, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("synth: cache dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(nil)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("synth: open cache: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Cached{next: next, backend: opts.Backend, db: db, log: log}, nil
}

type cachedRendering struct {
	Samples    []int16 `msgpack:"s"`
	SampleRate int     `msgpack:"r"`
	Channels   int     `msgpack:"c"`
	Duration   int64   `msgpack:"d"`
}

func cacheKey(backend string, req Request) []byte {
	h := sha256.New()
	h.Write([]byte(backend))
	h.Write([]byte{0})
	h.Write([]byte(req.Voice))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(req.Rate, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(req.Pitch, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(req.Text))
	return append([]byte("tts/"), h.Sum(nil)...)
}

// Speak implements Speaker. Cache read and write failures are logged and
// otherwise ignored; only errors of the wrapped Speaker are returned.
func (c *Cached) Speak(ctx context.Context, req Request) (*Rendering, error) {
	key := cacheKey(c.backend, req)

	r, err := c.get(key)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		c.log.WithError(err).Warn("synth: cache read failed")
	}

	r, err = c.next.Speak(ctx, req)
	if err != nil || r == nil || len(r.Samples) == 0 {
		return r, err
	}
	if err := c.put(key, r); err != nil {
		c.log.WithError(err).Warn("synth: cache write failed")
	}
	return r, nil
}

func (c *Cached) get(key []byte) (*Rendering, error) {
	var cr cachedRendering
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &cr)
		})
	})
	if err != nil {
		return nil, err
	}
	return &Rendering{
		Samples:  cr.Samples,
		Format:   audio.Format{SampleRate: cr.SampleRate, Channels: cr.Channels},
		Duration: time.Duration(cr.Duration),
	}, nil
}

func (c *Cached) put(key []byte, r *Rendering) error {
	val, err := msgpack.Marshal(cachedRendering{
		Samples:    r.Samples,
		SampleRate: r.Format.SampleRate,
		Channels:   r.Format.Channels,
		Duration:   int64(r.Duration),
	})
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Voices implements VoiceLister by asking the wrapped Speaker.
func (c *Cached) Voices(ctx context.Context) ([]string, error) {
	l, ok := c.next.(VoiceLister)
	if !ok {
		return nil, ErrNoVoiceList
	}
	return l.Voices(ctx)
}

// Close closes the underlying database.
func (c *Cached) Close() error {
	return c.db.Close()
}
