/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package procfs

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatus = `Name:	bash
Umask:	0022
State:	S (sleeping)
Tgid:	4242
Pid:	4242
PPid:	4200
Uid:	1000	1000	1000	1000
Gid:	1000	1000	1000	1000
Groups:	4 24 27 1000
VmRSS:	    5120 kB
Threads:	1
`

func TestParseStatus(t *testing.T) {
	fields := ParseStatus(sampleStatus)

	assert.Equal(t, "bash", fields["Name"])
	assert.Equal(t, "S (sleeping)", fields["State"])
	assert.Equal(t, "4200", fields["PPid"])
	assert.Equal(t, "1000\t1000\t1000\t1000", fields["Uid"])
	assert.Equal(t, "4 24 27 1000", fields["Groups"])
	// surrounding whitespace trimmed, interior kept
	assert.Equal(t, "5120 kB", fields["VmRSS"])
	assert.Len(t, fields, 11)
}

func TestParseStatus_noSeparator(t *testing.T) {
	fields := ParseStatus("Name:\tinit\nCoreDumping\nGroups:\n")

	v, ok := fields["CoreDumping"]
	assert.True(t, ok)
	assert.Equal(t, "", v)

	v, ok = fields["Groups"]
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, "init", fields["Name"])
}

func TestParseStatus_lastDuplicateWins(t *testing.T) {
	fields := ParseStatus("Name:\ta\nName:\tb\n")
	assert.Equal(t, "b", fields["Name"])
}

func TestParseStatus_onlyFirstSeparatorSplits(t *testing.T) {
	fields := ParseStatus("Cpus_allowed_list:\t0-3\nSomething:\ta:b:c\n")
	assert.Equal(t, "a:b:c", fields["Something"])
}

func TestParseStatus_skipsBadLines(t *testing.T) {
	raw := "Name:\tok\n" + "Bad\xff\xfe:\tx\n" + "\n" + "   \n" + ":\tnokey\n" + "State:\tR (running)"
	fields := ParseStatus(raw)

	assert.Equal(t, map[string]string{
		"Name":  "ok",
		"State": "R (running)",
	}, fields)
}

func TestParseStatus_empty(t *testing.T) {
	fields := ParseStatus("")
	assert.NotNil(t, fields)
	assert.Empty(t, fields)
}

func TestParseStatus_longLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20)
	fields := ParseStatus("Name:\t" + long + "\nPid:\t1\n")
	assert.Equal(t, long, fields["Name"])
	assert.Equal(t, "1", fields["Pid"])
}

func TestParseStatus_crlf(t *testing.T) {
	fields := ParseStatus("Name:\tx\r\nPid:\t3\r\n")
	assert.Equal(t, "x", fields["Name"])
	assert.Equal(t, "3", fields["Pid"])
}

type failingReader struct {
	data string
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errors.New("boom")
	}
	r.done = true
	return copy(p, r.data), nil
}

func TestParseStatusReader_error(t *testing.T) {
	fields, err := ParseStatusReader(&failingReader{data: "Name:\tx\nPid:\t"})
	require.Error(t, err)
	assert.Equal(t, "x", fields["Name"])
	// the partial last line is still parsed
	assert.Equal(t, "", fields["Pid"])
}
