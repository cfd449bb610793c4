/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package procfs

import (
	"strconv"
	"strings"
)

type (
	// ProcessRecord is the snapshot of one process taken during an enumeration pass.
	// It is not modified after the pass hands it out.
	ProcessRecord struct {
		Pid      uint64        `json:"pid"`
		UserIDs  CredentialSet `json:"userIds"`
		GroupIDs CredentialSet `json:"groupIds"`
		// RawFields is every field of the status record, the credential sets are derived from it.
		RawFields map[string]string `json:"rawFields"`
	}
)

// Name returns the command name from the status record.
func (p *ProcessRecord) Name() string {
	return p.RawFields[StatusKeyName]
}

// State returns the state letter, e.g. "S" for "S (sleeping)".
func (p *ProcessRecord) State() string {
	s := p.RawFields[StatusKeyState]
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

// PPid returns the parent pid, or 0 if it is absent or malformed.
func (p *ProcessRecord) PPid() uint64 {
	ppid, _ := strconv.ParseUint(p.RawFields[StatusKeyPPid], 10, 64)
	return ppid
}
