/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package procfs

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
)

// ErrUnknownIdentity is matched by errors.Is when an id has no entry in the identity database.
var ErrUnknownIdentity = errors.New("unknown identity")

type (
	// IdentityClass selects the uid or gid namespace.
	IdentityClass uint8

	// IdentityLookup is the identity database: numeric id to display name.
	// Implementations return an error matching ErrUnknownIdentity for ids that are not registered.
	IdentityLookup interface {
		LookupUser(uid uint32) (string, error)
		LookupGroup(gid uint32) (string, error)
	}

	// UnknownIdentityError carries the class and id of a failed resolution.
	UnknownIdentityError struct {
		Class IdentityClass
		ID    uint32
	}

	// IdentityResolver resolves ids through an IdentityLookup, remembering every answer (including misses).
	// One resolver lives as long as one enumeration pass.
	IdentityResolver struct {
		lookup  IdentityLookup
		users   *cache.Cache
		groups  *cache.Cache
		mutex   sync.Mutex
		lookups int64
	}
)

const (
	User IdentityClass = iota
	Group
)

func (c IdentityClass) String() string {
	switch c {
	case User:
		return "user"
	case Group:
		return "group"
	}
	return "class(" + strconv.Itoa(int(c)) + ")"
}

func (e *UnknownIdentityError) Error() string {
	return fmt.Sprintf("unknown %s id %d", e.Class, e.ID)
}

func (e *UnknownIdentityError) Is(target error) bool {
	return target == ErrUnknownIdentity
}

func NewIdentityResolver(lookup IdentityLookup) *IdentityResolver {
	return &IdentityResolver{
		lookup: lookup,
		users:  cache.New(cache.NoExpiration, 0),
		groups: cache.New(cache.NoExpiration, 0),
	}
}

// Resolve returns the display name of id in the namespace of class.
// The underlying lookup runs at most once per (class, id); later calls are served from cache with the same result.
func (r *IdentityResolver) Resolve(class IdentityClass, id uint32) (string, error) {
	c := r.users
	if class == Group {
		c = r.groups
	}
	key := strconv.FormatUint(uint64(id), 10)

	if v, ok := c.Get(key); ok {
		return unpackCached(v)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// another caller may have filled it while we were waiting
	if v, ok := c.Get(key); ok {
		return unpackCached(v)
	}

	name, err := r.lookup0(class, id)
	if err != nil {
		c.Set(key, err, cache.NoExpiration)
		return "", err
	}
	c.Set(key, name, cache.NoExpiration)
	return name, nil
}

// LookupCount returns how many times the underlying IdentityLookup has been consulted.
func (r *IdentityResolver) LookupCount() int64 {
	return atomic.LoadInt64(&r.lookups)
}

func (r *IdentityResolver) lookup0(class IdentityClass, id uint32) (string, error) {
	atomic.AddInt64(&r.lookups, 1)

	var name string
	var err error
	switch class {
	case User:
		name, err = r.lookup.LookupUser(id)
	case Group:
		name, err = r.lookup.LookupGroup(id)
	default:
		return "", fmt.Errorf("invalid identity class %d", class)
	}

	if err != nil {
		if errors.Is(err, ErrUnknownIdentity) {
			return "", &UnknownIdentityError{Class: class, ID: id}
		}
		return "", err
	}
	return name, nil
}

func unpackCached(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case error:
		return "", x
	default:
		return "", fmt.Errorf("unexpected cached identity value %T", v)
	}
}

// PlaceholderName is the name substituted for an id that cannot be resolved.
func PlaceholderName(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}
