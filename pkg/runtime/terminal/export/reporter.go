package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/foundation-report/pkg/models/domain"
)

const productHeader = "Product (latest version)"

type TableConfig struct {
	LabelWidth  int
	ColumnWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth:  42,
		ColumnWidth: 16,
	}
}

// LineWidth is the length of the separator line for n foundation columns
func (c TableConfig) LineWidth(n int) int {
	return c.LabelWidth + c.ColumnWidth*n
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const tableTemplate = `{{separator}}
{{label "` + productHeader + `"}}{{range .Foundations}}{{cell .}}{{end}}
{{separator}}
{{range .Rows}}{{label .Label}}{{range .Cells}}{{cell .}}{{end}}
{{end}}{{separator}}
`

type tableData struct {
	Foundations []string
	Rows        []domain.ReportRow
}

func (c *Reporter) Handle(report *domain.VersionReport) error {
	columns := len(report.Foundations)
	funcMap := template.FuncMap{
		"separator": func() string {
			return strings.Repeat("-", c.config.LineWidth(columns))
		},
		"label": func(s string) string {
			return fmt.Sprintf("%-*.*s", c.config.LabelWidth, c.config.LabelWidth, s)
		},
		"cell": func(s string) string {
			return fmt.Sprintf("%-*s", c.config.ColumnWidth, s)
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(tableTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	w := bufio.NewWriter(c.writer)
	data := tableData{Foundations: report.Foundations, Rows: report.Rows()}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return w.Flush()
}
