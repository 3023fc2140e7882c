package listing

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/localfs/localfs/pkg/filesystem"
)

const baseTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>File Server - %s</title>
  <style>
    body { font-family: sans-serif; max-width: 800px; margin: 20px auto; padding: 0 15px; }
    .header-info { background-color: #f8f9fa; padding: 10px 15px; border-radius: 5px; margin-bottom: 15px; border: 1px solid #eaeaea; }
    .entry { display: flex; align-items: center; padding: 5px; }
    .entry:hover { background-color: #f0f0f0; }
    a.name-link { display: block; flex-grow: 1; text-decoration: none; padding: 5px 0; }
    a.name-link:hover { background-color: #e6f0ff; }
    .folder .name-link { color: #1a73e8; font-weight: bold; }
    .file .name-link { color: #000; }
    .parent-dir .name-link { color: #555; font-style: italic; font-weight: normal; }
    .file-type { color: #888; margin-left: 8px; font-size: 0.9em; white-space: nowrap; }
    .folder .file-type { color: #1a73e8; }
    .open-btn { margin-left: 10px; padding: 4px 8px; cursor: pointer; background-color: #f5f5f5; border: 1px solid #ddd; border-radius: 3px; }
    .open-btn:hover { background-color: #e9e9e9; }
    .empty { color: #888; font-style: italic; }
  </style>
</head>
<body>
%s
<script>
  document.addEventListener('click', function (event) {
    var btn = event.target.closest('.open-btn');
    if (!btn) {
      return;
    }
    event.preventDefault();
    event.stopPropagation();
    fetch('/open?path=' + encodeURIComponent(btn.getAttribute('data-path')));
  });
</script>
</body>
</html>`

// Render returns the listing page for entries of the directory at subPath.
// The result depends only on its arguments.
func Render(entries []filesystem.Entry, subPath, root string) string {
	var content strings.Builder
	content.WriteString("<h1>File Browser</h1>\n")
	content.WriteString(headerInfo(subPath, root))
	content.WriteString(`<div class="file-list">` + "\n")
	if len(entries) == 0 {
		content.WriteString(`<div class="empty">This folder is empty.</div>` + "\n")
	}
	for _, entry := range entries {
		content.WriteString(entryHTML(entry))
	}
	content.WriteString("</div>")

	return RenderPage(html.EscapeString(root), content.String())
}

// RenderPage wraps content in the base template. Both arguments must already
// be escaped.
func RenderPage(title, content string) string {
	return fmt.Sprintf(baseTemplate, title, content)
}

func headerInfo(subPath, root string) string {
	current := subPath
	if current == "" {
		current = "."
	}
	return fmt.Sprintf(`<div class="header-info">
  <div><strong>Root Directory:</strong> %s</div>
  <div><strong>Current Path:</strong> /%s</div>
</div>
`, html.EscapeString(root), html.EscapeString(current))
}

// entryHTML generates one row: a link to the entry, its kind label and a
// button that reveals it in the file manager without leaving the page.
func entryHTML(entry filesystem.Entry) string {
	class := "entry file"
	if entry.IsDir {
		class = "entry folder"
	}
	if entry.IsParent {
		class += " parent-dir"
	}

	button := ""
	if entry.Path != "" {
		button = fmt.Sprintf(`
  <button type="button" class="open-btn" data-path="%s">Open in File Browser</button>`, html.EscapeString(entry.Path))
	}

	return fmt.Sprintf(`<div class="%s">
  <a href="%s" class="name-link">%s</a>
  <span class="file-type">%s</span>%s
</div>
`, class, html.EscapeString(Href(entry.Path)), html.EscapeString(entry.Name), html.EscapeString(kindLabel(entry)), button)
}

func kindLabel(entry filesystem.Entry) string {
	switch {
	case entry.IsParent:
		return "(Parent Directory)"
	case entry.IsDir:
		return "(Folder)"
	default:
		return fmt.Sprintf("(File, %s)", humanize.Bytes(uint64(entry.Size)))
	}
}

// Href returns the URL path of a root-relative, slash-separated path with
// every segment escaped.
func Href(relPath string) string {
	if relPath == "" {
		return "/"
	}
	segments := strings.Split(relPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return "/" + strings.Join(segments, "/")
}
