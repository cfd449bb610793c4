/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package procfs

import (
	"bufio"
	"bytes"
	"errors"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
)

type (
	// SystemLookup queries the user/group database of the running host.
	SystemLookup struct{}

	// FileLookup reads 'passwd' and 'group' files from a directory of fs.
	// It is used when the process tree belongs to another root, e.g. a host filesystem mounted into a container.
	FileLookup struct {
		fs     afero.Fs
		etcDir string

		once   sync.Once
		users  map[uint32]string
		groups map[uint32]string
		err    error
	}

	// MapLookup is a fixed identity table.
	MapLookup struct {
		Users  map[uint32]string
		Groups map[uint32]string
	}
)

func (SystemLookup) LookupUser(uid uint32) (string, error) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		var unknown user.UnknownUserIdError
		if errors.As(err, &unknown) {
			return "", ErrUnknownIdentity
		}
		return "", pkgerrors.Wrapf(err, "lookup uid=[%d]", uid)
	}
	return u.Username, nil
}

func (SystemLookup) LookupGroup(gid uint32) (string, error) {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		var unknown user.UnknownGroupIdError
		if errors.As(err, &unknown) {
			return "", ErrUnknownIdentity
		}
		return "", pkgerrors.Wrapf(err, "lookup gid=[%d]", gid)
	}
	return g.Name, nil
}

func NewFileLookup(fs afero.Fs, etcDir string) *FileLookup {
	return &FileLookup{fs: fs, etcDir: etcDir}
}

func (l *FileLookup) LookupUser(uid uint32) (string, error) {
	if err := l.load(); err != nil {
		return "", err
	}
	if name, ok := l.users[uid]; ok {
		return name, nil
	}
	return "", ErrUnknownIdentity
}

func (l *FileLookup) LookupGroup(gid uint32) (string, error) {
	if err := l.load(); err != nil {
		return "", err
	}
	if name, ok := l.groups[gid]; ok {
		return name, nil
	}
	return "", ErrUnknownIdentity
}

func (l *FileLookup) load() error {
	l.once.Do(func() {
		l.users, l.err = l.readDatabase("passwd")
		if l.err != nil {
			return
		}
		l.groups, l.err = l.readDatabase("group")
	})
	return l.err
}

// parseDatabase parses colon separated records whose first field is the name and third field is the numeric id.
// Both /etc/passwd and /etc/group share this layout. The first record for an id wins.
func parseDatabase(b []byte) map[uint32]string {
	m := make(map[uint32]string)
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ss := strings.SplitN(line, ":", 4)
		if len(ss) < 3 || ss[0] == "" {
			continue
		}
		id, err := strconv.ParseUint(ss[2], 10, 32)
		if err != nil {
			continue
		}
		if _, ok := m[uint32(id)]; !ok {
			m[uint32(id)] = ss[0]
		}
	}
	return m
}

func (l *FileLookup) readDatabase(name string) (map[uint32]string, error) {
	path := filepath.Join(l.etcDir, name)
	b, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "read identity database path=[%s]", path)
	}
	return parseDatabase(b), nil
}

func (l MapLookup) LookupUser(uid uint32) (string, error) {
	if name, ok := l.Users[uid]; ok {
		return name, nil
	}
	return "", ErrUnknownIdentity
}

func (l MapLookup) LookupGroup(gid uint32) (string, error) {
	if name, ok := l.Groups[gid]; ok {
		return name, nil
	}
	return "", ErrUnknownIdentity
}
