package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const style = `body{font-family:-apple-system,Segoe UI,Helvetica,Arial,sans-serif;color:#1c1917;max-width:900px;margin:0 auto;padding:1rem;}` +
	`table{width:100%;border-collapse:collapse;margin:0.5rem 0 1rem;font-size:0.9rem;}` +
	`th,td{border:1px solid #a8a29e;padding:0.35rem 0.5rem;}thead th{background:#f1f5f9;}` +
	`blockquote{border-left:3px solid #b91c1c;margin:0;padding-left:0.75rem;color:#7f1d1d;}` +
	`@media print{@page{size:auto;margin:12mm;}body{padding:0;}}`

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML wraps the converted markdown in a printable page.
func HTML(markdown string) ([]byte, error) {
	var content bytes.Buffer
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	var out bytes.Buffer
	out.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>Startup Valuation Report</title><style>")
	out.WriteString(style)
	out.WriteString("</style></head><body>")
	out.Write(content.Bytes())
	out.WriteString("</body></html>")
	return out.Bytes(), nil
}
