package plotpage

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows as an HTML table through go-pretty.
type Table struct {
	Header []string
	Rows   [][]string
	// Footer is an optional single-cell caption row.
	Footer string
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	tw := table.NewWriter()
	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		tw.AppendRow(row)
	}
	if t.Footer != "" {
		tw.AppendFooter(table.Row{t.Footer})
	}
	tw.Style().HTML = table.HTMLOptions{CSSClass: "data-table", EmptyColumn: "&nbsp;", EscapeText: true, Newline: "<br/>"}
	if _, err := io.WriteString(w, tw.RenderHTML()); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

// Image embeds a PNG as a data URI.
type Image struct {
	Alt string
	PNG []byte
}

// Render writes the img element.
func (i *Image) Render(w io.Writer) error {
	src := template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(i.PNG))
	_, err := fmt.Fprintf(w, `<img class="chart" alt="%s" src="%s">`, template.HTMLEscapeString(i.Alt), src)
	return err
}

// Message renders a short line of text in place of a chart.
type Message string

// Render writes the escaped message.
func (m Message) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, `<p class="message">%s</p>`, template.HTMLEscapeString(string(m)))
	return err
}

// Group renders several components one after another.
type Group []Renderable

// Render writes every member in order.
func (g Group) Render(w io.Writer) error {
	for _, r := range g {
		html, err := renderChart(r)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, html); err != nil {
			return err
		}
	}
	return nil
}

// UploadForm is the dataset upload form shown on the dashboard landing page.
type UploadForm struct {
	Accept     string
	MaxUpload  string
	Strategies []string
	Error      string
}

// Render writes the form.
func (u *UploadForm) Render(w io.Writer) error {
	html, err := renderTemplate("upload.html", uploadData{
		Accept:     u.Accept,
		MaxUpload:  u.MaxUpload,
		Strategies: u.Strategies,
		Error:      u.Error,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, string(html))
	return err
}
