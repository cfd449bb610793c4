/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package procfs

import (
	"strconv"
	"strings"
)

const (
	credentialDelimiter = "\t"
	credentialSlots     = 4
)

type (
	// Credential is one resolved id.
	Credential struct {
		ID   uint32 `json:"id"`
		Name string `json:"name"`
	}

	// CredentialSet holds the four ids of a Uid or Gid status line, in kernel order.
	CredentialSet struct {
		Real       Credential `json:"real"`
		Effective  Credential `json:"effective"`
		SavedSet   Credential `json:"savedSet"`
		FileSystem Credential `json:"fileSystem"`
	}
)

// DecodeCredentials decodes a credential field such as "1000\t1000\t1000\t1000" and resolves every id.
// Missing or unparsable tokens become id 0. Every slot always carries a name: when resolution fails the
// decimal id is used instead and the first resolution error is returned along with the complete set.
func DecodeCredentials(class IdentityClass, value string, r *IdentityResolver) (CredentialSet, error) {
	set, _, err := decodeCredentials(class, value, r)
	return set, err
}

func decodeCredentials(class IdentityClass, value string, r *IdentityResolver) (CredentialSet, bool, error) {
	ids, malformed := splitCredentialIDs(value)

	var firstErr error
	var slots [credentialSlots]Credential
	for i, id := range ids {
		name, err := r.Resolve(class, id)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			name = PlaceholderName(id)
		}
		slots[i] = Credential{ID: id, Name: name}
	}

	return CredentialSet{
		Real:       slots[0],
		Effective:  slots[1],
		SavedSet:   slots[2],
		FileSystem: slots[3],
	}, malformed, firstErr
}

// splitCredentialIDs returns the four ids of value. malformed reports that at least one slot was defaulted.
func splitCredentialIDs(value string) (ids [credentialSlots]uint32, malformed bool) {
	tokens := strings.Split(value, credentialDelimiter)
	if len(tokens) < credentialSlots {
		malformed = true
	}
	for i := 0; i < credentialSlots && i < len(tokens); i++ {
		id, err := strconv.ParseUint(strings.TrimSpace(tokens[i]), 10, 32)
		if err != nil {
			malformed = true
			continue
		}
		ids[i] = uint32(id)
	}
	return
}
