/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/traas-stack/holoinsight-ps/pkg/appconfig"
	"github.com/traas-stack/holoinsight-ps/pkg/procfs"
)

func sameCredentials(id uint32, name string) procfs.CredentialSet {
	c := procfs.Credential{ID: id, Name: name}
	return procfs.CredentialSet{Real: c, Effective: c, SavedSet: c, FileSystem: c}
}

func testRecords() []*procfs.ProcessRecord {
	return []*procfs.ProcessRecord{
		{
			Pid:       1,
			UserIDs:   sameCredentials(0, "root"),
			GroupIDs:  sameCredentials(0, "root"),
			RawFields: map[string]string{"Name": "systemd", "State": "S (sleeping)", "PPid": "0"},
		},
		{
			Pid:       4242,
			UserIDs:   sameCredentials(1000, "alice"),
			GroupIDs:  sameCredentials(1000, "staff"),
			RawFields: map[string]string{"Name": "bash", "State": "R (running)", "PPid": "1"},
		},
	}
}

func TestPrinter_plain(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, New(buf, appconfig.OutputFormatPlain, false, nil).Print(testRecords()))

	assert.Equal(t, "root  root           1\nalice staff       4242\n", buf.String())
}

func TestPrinter_table(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, New(buf, appconfig.OutputFormatTable, false, nil).Print(testRecords()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"USER", "GROUP", "PID", "PPID", "STAT", "NAME"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"root", "root", "1", "0", "S", "systemd"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"alice", "staff", "4242", "1", "R", "bash"}, strings.Fields(lines[2]))
}

func TestPrinter_tableLong(t *testing.T) {
	buf := &bytes.Buffer{}
	cmdline := func(pid uint64) string {
		if pid == 4242 {
			return "/bin/bash"
		}
		return ""
	}
	require.NoError(t, New(buf, appconfig.OutputFormatTable, true, cmdline).Print(testRecords()))

	out := buf.String()
	assert.Contains(t, out, "RUSER")
	assert.Contains(t, out, "CMD")
	assert.Contains(t, out, "/bin/bash")
}

func TestPrinter_json(t *testing.T) {
	buf := &bytes.Buffer{}
	cmdline := func(pid uint64) string { return "cmd" }
	require.NoError(t, New(buf, appconfig.OutputFormatJson, true, cmdline).Print(testRecords()))

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, float64(4242), out[1]["pid"])
	assert.Equal(t, "cmd", out[1]["cmdline"])
	userIds := out[1]["userIds"].(map[string]interface{})
	assert.Equal(t, "alice", userIds["effective"].(map[string]interface{})["name"])
}

func TestPrinter_jsonEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, New(buf, appconfig.OutputFormatJson, false, nil).Print(nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestPrinter_unsupported(t *testing.T) {
	err := New(&bytes.Buffer{}, "xml", false, nil).Print(testRecords())
	assert.Error(t, err)
}
