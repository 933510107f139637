package main

import (
	"github.com/revelaction/learnspacy/storage/sqlite/zombiezen"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Pool opens the cache database once.
type Pool struct {
	p *sqlitex.Pool
}

// Open opens the cache at path, creating it if needed.
func (p *Pool) Open(path string) (*sqlitex.Pool, error) {
	return p.open(path, zombiezen.NewPool)
}

// OpenExisting opens the cache at path and fails if it does not exist.
func (p *Pool) OpenExisting(path string) (*sqlitex.Pool, error) {
	return p.open(path, zombiezen.OpenPool)
}

func (p *Pool) open(path string, newPool func(string) (*sqlitex.Pool, error)) (*sqlitex.Pool, error) {
	if p.p != nil {
		return p.p, nil
	}
	pool, err := newPool(path)
	if err != nil {
		return nil, err
	}
	p.p = pool
	return p.p, nil
}

func (p *Pool) Close() error {
	if p.p != nil {
		return p.p.Close()
	}
	return nil
}
