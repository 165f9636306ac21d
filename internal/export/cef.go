// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package export

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/tomtom215/joy/internal/audit"
)

const (
	cefVendor  = "Joy"
	cefProduct = "Audit"
	cefVersion = "1.0"
)

// cefSeverity maps audit severities onto the CEF 0-10 scale.
var cefSeverity = map[audit.Severity]int{
	audit.SeverityInfo:     3,
	audit.SeverityWarning:  6,
	audit.SeverityError:    8,
	audit.SeverityCritical: 10,
}

// CEF writes ArcSight Common Event Format lines for SIEM ingestion.
type CEF struct{}

func (CEF) Name() string        { return "cef" }
func (CEF) ContentType() string { return "text/plain; charset=utf-8" }
func (CEF) Extension() string   { return "cef" }

func (CEF) NewWriter(w io.Writer) RowWriter {
	return &cefWriter{w: bufio.NewWriter(w)}
}

type cefWriter struct {
	w *bufio.Writer
}

func (c *cefWriter) Open(context.Context) error { return nil }

func (c *cefWriter) Write(_ context.Context, r *audit.Record) error {
	_, err := c.w.WriteString(FormatCEF(r) + "\n")
	return err
}

func (c *cefWriter) Close(context.Context) error {
	return c.w.Flush()
}

// FormatCEF renders r as one CEF line without the trailing newline.
func FormatCEF(r *audit.Record) string {
	var b strings.Builder
	b.WriteString("CEF:0|")
	b.WriteString(cefHeader(cefVendor) + "|")
	b.WriteString(cefHeader(cefProduct) + "|")
	b.WriteString(cefHeader(cefVersion) + "|")
	b.WriteString(cefHeader(r.Action) + "|")
	b.WriteString(cefHeader(r.Action) + "|")
	b.WriteString(strconv.Itoa(cefSeverity[r.Severity]) + "|")

	ext := []struct{ key, value string }{
		{"rt", strconv.FormatInt(r.CreatedAt.UnixMilli(), 10)},
		{"externalId", strconv.FormatInt(r.ID, 10)},
		{"act", r.Action},
		{"suser", deref(r.ActorID)},
		{"cs1Label", "actorType"},
		{"cs1", string(r.ActorType)},
		{"src", deref(r.IPAddress)},
		{"requestClientApplication", deref(r.UserAgent)},
		{"cs2Label", "workspaceId"},
		{"cs2", deref(r.WorkspaceID)},
		{"cs3Label", "clientId"},
		{"cs3", deref(r.ClientID)},
		{"cs4Label", "tags"},
		{"cs4", strings.Join(r.Tags, ",")},
	}
	if r.Subject != nil {
		ext = append(ext,
			struct{ key, value string }{"cs5Label", "subject"},
			struct{ key, value string }{"cs5", r.Subject.String()},
		)
	}

	first := true
	for _, kv := range ext {
		if kv.value == "" {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(kv.key + "=" + cefExtension(kv.value))
	}
	return b.String()
}

var (
	cefHeaderEscaper    = strings.NewReplacer(`\`, `\\`, `|`, `\|`, "\n", " ", "\r", " ")
	cefExtensionEscaper = strings.NewReplacer(`\`, `\\`, `=`, `\=`, "\n", `\n`, "\r", `\r`)
)

func cefHeader(s string) string    { return cefHeaderEscaper.Replace(s) }
func cefExtension(s string) string { return cefExtensionEscaper.Replace(s) }
