package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"hearth/services/hearth"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func writeAccessRequests(w io.Writer, format string, entries []hearth.AccessRequest) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.FormatInt(e.ID, 10), e.Email, e.RequestedAt.UTC().Format(time.RFC3339)})
	}
	return write(w, format, entries, []string{"ID", "EMAIL", "REQUESTED AT"}, rows)
}

func writeAudit(w io.Writer, format string, entries []hearth.AuditEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.FormatInt(e.ID, 10), e.At.UTC().Format(time.RFC3339), e.Actor, e.Action, e.Obj})
	}
	return write(w, format, entries, []string{"ID", "AT", "ACTOR", "ACTION", "OBJECT"}, rows)
}

func write(w io.Writer, format string, v any, headers []string, rows [][]string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTable, "":
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(headers...).
			Rows(rows...)
		_, err := fmt.Fprintln(w, t.String())
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
