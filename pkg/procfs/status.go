/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package procfs

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

const statusSeparator = ":"

// Well known keys of /proc/<pid>/status
const (
	StatusKeyName  = "Name"
	StatusKeyState = "State"
	StatusKeyPPid  = "PPid"
	StatusKeyUid   = "Uid"
	StatusKeyGid   = "Gid"
)

// ParseStatus parses the content of a /proc/<pid>/status file into a field map.
// It never fails: lines that cannot be understood are dropped and the map is simply smaller.
func ParseStatus(raw string) map[string]string {
	fields, _ := ParseStatusReader(strings.NewReader(raw))
	return fields
}

// ParseStatusReader is the streaming form of ParseStatus. The returned error only reports a failing reader;
// the fields read before the failure are still returned.
func ParseStatusReader(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			parseStatusLine(fields, line)
		}
		if err != nil {
			if err == io.EOF {
				return fields, nil
			}
			return fields, err
		}
	}
}

func parseStatusLine(fields map[string]string, line string) {
	if !utf8.ValidString(line) {
		return
	}
	key, value := line, ""
	if i := strings.Index(line, statusSeparator); i >= 0 {
		key, value = line[:i], line[i+len(statusSeparator):]
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	fields[key] = strings.TrimSpace(value)
}
