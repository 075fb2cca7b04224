// Package plotpage renders the dataset dashboard: an HTML page of sections,
// each holding an interactive echarts chart, a table or a static image.
package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

const styleTagLen = 8 // len("</style>")

// Style defines chart dimensions and grid margins.
type Style struct {
	Width      string
	Height     string
	GridLeft   string
	GridRight  string
	GridTop    string
	GridBottom string
}

// DefaultStyle returns the default chart style.
func DefaultStyle() Style {
	return Style{
		Width:      "100%",
		Height:     "420px",
		GridLeft:   "5%",
		GridRight:  "5%",
		GridTop:    "40",
		GridBottom: "15%",
	}
}

// Hint contains interpretive guidance for a section.
type Hint struct {
	Title string
	Items []string
}

// Section is one titled block of the page.
type Section struct {
	Title    string
	Subtitle string
	Hint     Hint
	Chart    Renderable
}

// Page is a complete dashboard page.
type Page struct {
	Title       string
	Description string
	RunID       string
	Sections    []Section
}

// NewPage creates an empty page.
func NewPage(title, description string) *Page {
	return &Page{Title: title, Description: description}
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Renderable is implemented by everything a section can show.
type Renderable interface {
	Render(w io.Writer) error
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	var sections bytes.Buffer
	for _, s := range p.Sections {
		html, err := renderSection(s)
		if err != nil {
			return fmt.Errorf("render section %q: %w", s.Title, err)
		}
		sections.WriteString(string(html))
	}
	html, err := renderTemplate("page.html", pageData{
		Title:       p.Title,
		Description: p.Description,
		RunID:       p.RunID,
		Content:     template.HTML(sections.String()),
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if _, err := io.WriteString(w, string(html)); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}

func renderSection(s Section) (template.HTML, error) {
	body, err := renderChart(s.Chart)
	if err != nil {
		return "", err
	}
	var hint *hintData
	if len(s.Hint.Items) > 0 {
		hint = &hintData{Title: s.Hint.Title, Items: s.Hint.Items}
	}
	return renderTemplate("section.html", sectionData{
		Title:    s.Title,
		Subtitle: s.Subtitle,
		Chart:    template.HTML(body),
		Hint:     hint,
	})
}

func renderChart(chart Renderable) (string, error) {
	if chart == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	return extractChartContent(buf.String()), nil
}

// extractChartContent strips the standalone page echarts renders around a
// chart, keeping only the chart div and its script.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}
	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}
	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}
	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)
	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			return content
		}
		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			return content
		}
		content = content[:i] + content[i+j+styleTagLen:]
	}
}
