package plotpage

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var err error
		templates, err = template.New("").ParseFS(templateFS, "templates/*.html")
		if err != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", err)
		}
	})
	return templates, errTemplates
}

func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", fmt.Errorf("loading templates: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

type pageData struct {
	Title       string
	Description string
	RunID       string
	Content     template.HTML
}

type sectionData struct {
	Title    string
	Subtitle string
	Chart    template.HTML
	Hint     *hintData
}

type hintData struct {
	Title string
	Items []string
}

type uploadData struct {
	Accept     string
	MaxUpload  string
	Strategies []string
	Error      string
}
