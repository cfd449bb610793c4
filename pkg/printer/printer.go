/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/traas-stack/holoinsight-ps/pkg/appconfig"
	"github.com/traas-stack/holoinsight-ps/pkg/procfs"
)

type (
	// CmdlineFunc returns the command line of pid, or "" when it is unknown.
	CmdlineFunc func(pid uint64) string

	// Printer renders process records in one of the output formats of appconfig.
	Printer struct {
		w       io.Writer
		format  string
		long    bool
		cmdline CmdlineFunc
	}

	jsonRecord struct {
		*procfs.ProcessRecord
		Cmdline string `json:"cmdline,omitempty"`
	}
)

func New(w io.Writer, format string, long bool, cmdline CmdlineFunc) *Printer {
	if cmdline == nil {
		cmdline = func(uint64) string { return "" }
	}
	return &Printer{
		w:       w,
		format:  format,
		long:    long,
		cmdline: cmdline,
	}
}

func (p *Printer) Print(records []*procfs.ProcessRecord) error {
	switch p.format {
	case appconfig.OutputFormatPlain:
		return p.printPlain(records)
	case appconfig.OutputFormatJson:
		return p.printJson(records)
	case appconfig.OutputFormatTable, "":
		p.printTable(records)
		return nil
	}
	return errors.Errorf("unsupported output format [%s]", p.format)
}

// printPlain writes fixed width "user group pid" lines.
func (p *Printer) printPlain(records []*procfs.ProcessRecord) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(p.w, "%-5s %-5s %10d\n", r.UserIDs.Effective.Name, r.GroupIDs.Effective.Name, r.Pid); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printJson(records []*procfs.ProcessRecord) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		jr := jsonRecord{ProcessRecord: r}
		if p.long {
			jr.Cmdline = p.cmdline(r.Pid)
		}
		out = append(out, jr)
	}
	encoder := json.NewEncoder(p.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func (p *Printer) printTable(records []*procfs.ProcessRecord) {
	header := []string{"USER", "GROUP", "PID", "PPID", "STAT", "NAME"}
	if p.long {
		header = append(header, "RUSER", "RGROUP", "CMD")
	}

	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, r := range records {
		row := []string{
			r.UserIDs.Effective.Name,
			r.GroupIDs.Effective.Name,
			strconv.FormatUint(r.Pid, 10),
			strconv.FormatUint(r.PPid(), 10),
			r.State(),
			r.Name(),
		}
		if p.long {
			row = append(row, r.UserIDs.Real.Name, r.GroupIDs.Real.Name, p.cmdline(r.Pid))
		}
		table.Append(row)
	}
	table.Render()
}
