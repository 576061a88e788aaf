package content

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const exportStyle = "body{font-family:system-ui,sans-serif;max-width:720px;margin:2rem auto;padding:0 1rem;line-height:1.55;color:#1c1917}" +
	"h1,h2{line-height:1.2}table{border-collapse:collapse}th,td{border:1px solid #d6d3d1;padding:.3rem .5rem}" +
	".meta{color:#78716c;font-size:.85rem}"

// ExportHTML renders d as a standalone HTML page.
func ExportHTML(d Draft) (string, error) {
	var body strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(d.Body), &body); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	title := html.EscapeString(d.Title)
	meta := html.EscapeString(string(d.Kind))
	if !d.UpdatedAt.IsZero() {
		meta += " · " + d.UpdatedAt.Format("2 Jan 2006")
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + title + "</title>" +
		"<style>" + exportStyle + "</style></head><body>" +
		"<p class='meta'>" + meta + "</p>" +
		body.String() +
		"</body></html>", nil
}

// FileName returns the export file name for d.
func FileName(d Draft) string {
	name := slug.Make(d.Title)
	if name == "" {
		name = d.ID
	}
	return name + ".html"
}

// ExportFile writes d to dir/<slug>.html and returns the path.
func ExportFile(dir string, d Draft) (string, error) {
	page, err := ExportHTML(d)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(d))
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
