package things

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Format selects the bridge's listing output.
type Format string

const (
	FormatJSON Format = "json" // one JSON object per line
	FormatHTML Format = "html" // legacy checkbox+link markup
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatJSON || f == FormatHTML
}

// checkboxClass marks task checkboxes in the legacy markup.
const checkboxClass = "things-today-checkbox"

// Decode converts bridge output in the given format into tasks.
func Decode(format Format, data []byte) ([]Task, error) {
	switch format {
	case FormatJSON:
		return ParseLines(data)
	case FormatHTML:
		return ParseFragment(data)
	default:
		return nil, fmt.Errorf("unknown listing format %q", format)
	}
}

// ParseLines decodes one JSON task object per line. Blank lines are skipped.
// Tasks without a status are treated as open.
func ParseLines(data []byte) ([]Task, error) {
	var tasks []Task

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		var t Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if t.ID == "" {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyID)
		}
		if t.Status == "" {
			t.Status = StatusOpen
		}
		tasks = append(tasks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan listing: %w", err)
	}

	return tasks, nil
}

// ParseFragment decodes the legacy markup listing: each task is a checkbox
// input carrying the id in a tid attribute, followed by a link whose text is
// the task name. Checkboxes without a tid are skipped; a task without a link
// is named after its id.
func ParseFragment(data []byte) ([]Task, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	var (
		tasks   []Task
		current = -1
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "input":
				if hasClass(n, checkboxClass) {
					current = -1
					if id := attr(n, "tid"); id != "" {
						tasks = append(tasks, Task{ID: id, Name: id, Status: StatusOpen})
						current = len(tasks) - 1
					}
				}
			case "a":
				if current >= 0 {
					if name := strings.TrimSpace(textContent(n)); name != "" {
						tasks[current].Name = name
					}
					current = -1
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tasks, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
