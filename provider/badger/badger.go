package badger

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	bg "github.com/dgraph-io/badger/v4"

	pr "github.com/unkn0wn-root/jsonable/provider"
)

// Provider persists documents in a badger key-value store. Unlike the cache
// providers it survives restarts when opened with a Dir.
type Provider struct {
	db      *bg.DB
	closeDB bool
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	// Dir is the data directory. Empty => in-memory store.
	Dir string
	// DB, when set, is used as is and Dir is ignored.
	DB *bg.DB
	// CloseDB closes DB on Close. Always true for a store opened by New.
	CloseDB bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.DB != nil {
		return &Provider{db: cfg.DB, closeDB: cfg.CloseDB}, nil
	}
	opts := bg.DefaultOptions(cfg.Dir).WithLogger(nil)
	if cfg.Dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := bg.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "badger open")
	}
	return &Provider{db: db, closeDB: true}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := p.db.View(func(txn *bg.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, bg.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "badger get %q", key)
	}
	return out, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	e := bg.NewEntry([]byte(key), value)
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	if err := p.db.Update(func(txn *bg.Txn) error { return txn.SetEntry(e) }); err != nil {
		return false, errors.Wrapf(err, "badger set %q", key)
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	if err := p.db.Update(func(txn *bg.Txn) error { return txn.Delete([]byte(key)) }); err != nil {
		return errors.Wrapf(err, "badger del %q", key)
	}
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	if !p.closeDB {
		return nil
	}
	return p.db.Close()
}
