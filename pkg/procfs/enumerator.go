/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package procfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/traas-stack/holoinsight-ps/pkg/logger"
	"github.com/traas-stack/holoinsight-ps/pkg/util/fs2"
	"go.uber.org/zap"
)

const (
	DefaultRoot    = "/proc"
	statusFileName = "status"
)

var (
	// ErrRootUnreadable means the process-information root could not be listed. Nothing can be enumerated.
	ErrRootUnreadable = errors.New("process root unreadable")
	// ErrEntryVanished means a process disappeared between listing the root and reading its status.
	ErrEntryVanished = errors.New("process entry vanished")

	errUnresolved = errors.New("unresolved identity")
)

type (
	// Options configures an Enumerator. Zero values fall back to the host /proc and the host identity database.
	Options struct {
		Fs     afero.Fs
		Root   string
		Lookup IdentityLookup
		// Strict drops processes whose uid or gid cannot be resolved instead of using placeholder names.
		Strict bool
	}

	// PassStats counts what happened to the root entries during one pass.
	PassStats struct {
		Listed     int `json:"listed"`
		NotDir     int `json:"notDir"`
		NotPid     int `json:"notPid"`
		Vanished   int `json:"vanished"`
		Unreadable int `json:"unreadable"`
		Malformed  int `json:"malformed"`
		Unresolved int `json:"unresolved"`
		Records    int `json:"records"`
	}

	// Enumerator takes one snapshot of the processes under a root.
	// It owns the identity cache for the pass, so use a new Enumerator for every snapshot.
	Enumerator struct {
		fs       afero.Fs
		root     string
		strict   bool
		resolver *IdentityResolver
		stats    PassStats
	}

	rootUnreadableError struct {
		root  string
		cause error
	}
)

func (e *rootUnreadableError) Error() string {
	return fmt.Sprintf("%s root=[%s]: %v", ErrRootUnreadable.Error(), e.root, e.cause)
}

func (e *rootUnreadableError) Is(target error) bool {
	return target == ErrRootUnreadable
}

func (e *rootUnreadableError) Unwrap() error {
	return e.cause
}

func NewEnumerator(opts Options) *Enumerator {
	if opts.Fs == nil {
		opts.Fs = fs2.NewReadonlyOsFs()
	}
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}
	if opts.Lookup == nil {
		opts.Lookup = SystemLookup{}
	}
	return &Enumerator{
		fs:       opts.Fs,
		root:     opts.Root,
		strict:   opts.Strict,
		resolver: NewIdentityResolver(opts.Lookup),
	}
}

// Enumerate returns the records of all processes in root listing order.
func (e *Enumerator) Enumerate() ([]*ProcessRecord, error) {
	var records []*ProcessRecord
	err := e.Walk(func(record *ProcessRecord) bool {
		records = append(records, record)
		return true
	})
	return records, err
}

// Walk calls fn for every process in root listing order and stops early when fn returns false.
// Only a root that cannot be listed is reported as an error; individual processes that cannot be read are skipped.
func (e *Enumerator) Walk(fn func(*ProcessRecord) bool) error {
	infos, err := e.listRoot()
	if err != nil {
		logger.Errorz("[procfs] list root error", zap.String("root", e.root), zap.Error(err))
		return err
	}

	defer func() {
		logger.Debugz("[procfs] pass done", zap.String("root", e.root), zap.Any("stats", e.stats))
	}()

	for _, info := range infos {
		e.stats.Listed++

		if !info.IsDir() {
			e.stats.NotDir++
			continue
		}
		pid, ok := ParsePid(info.Name())
		if !ok {
			e.stats.NotPid++
			continue
		}

		record, err := e.readRecord(pid)
		if err != nil {
			switch {
			case errors.Is(err, ErrEntryVanished):
				e.stats.Vanished++
			case errors.Is(err, errUnresolved):
				// already counted by readRecord
			default:
				e.stats.Unreadable++
			}
			logger.Debugz("[procfs] skip process", zap.Uint64("pid", pid), zap.Error(err))
			continue
		}

		e.stats.Records++
		if !fn(record) {
			return nil
		}
	}
	return nil
}

// Stats returns the counters of the pass so far.
func (e *Enumerator) Stats() PassStats {
	return e.stats
}

// Resolver returns the identity resolver shared by all processes of this pass.
func (e *Enumerator) Resolver() *IdentityResolver {
	return e.resolver
}

func (e *Enumerator) listRoot() ([]os.FileInfo, error) {
	f, err := e.fs.Open(e.root)
	if err != nil {
		return nil, pkgerrors.WithStack(&rootUnreadableError{root: e.root, cause: err})
	}
	defer f.Close()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, pkgerrors.WithStack(&rootUnreadableError{root: e.root, cause: err})
	}
	return infos, nil
}

func (e *Enumerator) readRecord(pid uint64) (*ProcessRecord, error) {
	path := filepath.Join(e.root, strconv.FormatUint(pid, 10), statusFileName)

	fields, err := e.readStatus(path)
	if err != nil {
		return nil, err
	}

	userIDs, malformedU, errU := decodeCredentials(User, fields[StatusKeyUid], e.resolver)
	groupIDs, malformedG, errG := decodeCredentials(Group, fields[StatusKeyGid], e.resolver)
	if malformedU || malformedG {
		e.stats.Malformed++
		logger.Debugz("[procfs] malformed credential field", zap.Uint64("pid", pid),
			zap.String("uid", fields[StatusKeyUid]), zap.String("gid", fields[StatusKeyGid]))
	}

	resolveErr := errU
	if resolveErr == nil {
		resolveErr = errG
	}
	if resolveErr != nil {
		e.stats.Unresolved++
		if e.strict {
			return nil, pkgerrors.Wrapf(errUnresolved, "pid=[%d] cause=[%v]", pid, resolveErr)
		}
		logger.Debugz("[procfs] use placeholder identity", zap.Uint64("pid", pid), zap.Error(resolveErr))
	}

	return &ProcessRecord{
		Pid:       pid,
		UserIDs:   userIDs,
		GroupIDs:  groupIDs,
		RawFields: fields,
	}, nil
}

func (e *Enumerator) readStatus(path string) (map[string]string, error) {
	f, err := e.fs.Open(path)
	if err != nil {
		return nil, classifyEntryError(err, path)
	}
	defer f.Close()

	fields, err := ParseStatusReader(f)
	if err != nil {
		return nil, classifyEntryError(err, path)
	}
	return fields, nil
}

// classifyEntryError maps errors of a process that exited while being read to ErrEntryVanished.
func classifyEntryError(err error, path string) error {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ESRCH) {
		return pkgerrors.Wrapf(ErrEntryVanished, "path=[%s] cause=[%v]", path, err)
	}
	return pkgerrors.Wrapf(err, "read status path=[%s]", path)
}

// ParsePid accepts only canonical decimal pids: digits only, no sign, no leading zero (except "0" itself).
func ParsePid(name string) (uint64, bool) {
	if name == "" {
		return 0, false
	}
	if len(name) > 1 && name[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	pid, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0, false
	}
	return pid, true
}
