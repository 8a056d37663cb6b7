// Package report exports a comparison run as JSON or as a standalone HTML page.
package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"path/filepath"
	"time"

	"github.com/mengfei25/torch-xpu-ops/internal/compare"
	"github.com/mengfei25/torch-xpu-ops/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Document is the serialized form of one run.
type Document struct {
	GeneratedAt time.Time               `json:"generated_at"`
	TargetDir   string                  `json:"target_dir"`
	BaselineDir string                  `json:"baseline_dir"`
	Header      []string                `json:"header"`
	Files       []compare.FilePair      `json:"files"`
	Rows        []compare.ComparisonRow `json:"rows"`
	Summaries   []SummaryView           `json:"summaries"`
}

// SummaryView adds the display string to a compare.Summary.
type SummaryView struct {
	compare.Summary
	Display string `json:"display"`
}

// NewDocument wraps rep with run metadata.
func NewDocument(rep compare.Report, targetDir, baselineDir string, now time.Time) Document {
	summaries := make([]SummaryView, 0, len(rep.Summaries))
	for _, s := range rep.Summaries {
		summaries = append(summaries, SummaryView{Summary: s, Display: s.Display()})
	}
	return Document{
		GeneratedAt: now.UTC(),
		TargetDir:   targetDir,
		BaselineDir: baselineDir,
		Header:      compare.Header,
		Files:       rep.Files,
		Rows:        rep.Rows,
		Summaries:   summaries,
	}
}

// WriteJSON writes doc as indented JSON to path.
func WriteJSON(fs afero.Fs, path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to marshal report JSON")
	}
	if err := writeFile(fs, path, data); err != nil {
		return err
	}
	logging.LogFileEvent("write", path, len(doc.Rows))
	return nil
}

// WriteHTML renders doc with GenerateHTML and writes it to path.
func WriteHTML(fs afero.Fs, path string, doc Document) error {
	html, err := GenerateHTML(doc)
	if err != nil {
		return errors.Wrap(err, "failed generating HTML report")
	}
	if err := writeFile(fs, path, []byte(html)); err != nil {
		return err
	}
	logging.LogFileEvent("write", path, len(doc.Rows))
	return nil
}

func writeFile(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "unable to create directory for %s", path)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	return nil
}

type htmlView struct {
	Title     string
	Doc       Document
	RowsJSON  template.JS
	Summaries []SummaryView
}

// GenerateHTML renders a self-contained page: a summary list and a sortable
// table fed from the embedded row data.
func GenerateHTML(doc Document) (string, error) {
	records := make([][]string, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		records = append(records, row.Record())
	}
	payload, err := json.Marshal(struct {
		Header []string   `json:"header"`
		Rows   [][]string `json:"rows"`
	}{Header: compare.Header, Rows: records})
	if err != nil {
		return "", err
	}

	view := htmlView{
		Title:     "Inductor performance comparison",
		Doc:       doc,
		RowsJSON:  template.JS(payload),
		Summaries: doc.Summaries,
	}
	var buf bytes.Buffer
	if err := htmlReportTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var htmlReportTemplate = template.Must(template.New("comparison-report").Parse(htmlReportTemplateHTML))

const htmlReportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    :root {
      --primary: #334155;
      --light: #F1F5F9;
      --text: #0F172A;
      --border: #E2E8F0;
      --good: #10B981;
      --bad: #EF4444;
    }
    body { font-family: system-ui, sans-serif; background: var(--light); color: var(--text); margin: 2rem; }
    h1 { color: var(--primary); }
    table { border-collapse: collapse; background: #FFFFFF; }
    th, td { border: 1px solid var(--border); padding: 0.25rem 0.5rem; text-align: right; }
    th { cursor: pointer; background: var(--light); }
    td:nth-child(-n+2) { text-align: left; }
    td.good { color: var(--good); }
    td.bad { color: var(--bad); }
    .meta { color: #64748B; margin-bottom: 1rem; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <div class="meta">
    Target: <code>{{ .Doc.TargetDir }}</code> &middot;
    Baseline: <code>{{ .Doc.BaselineDir }}</code> &middot;
    Generated {{ .Doc.GeneratedAt.Format "2006-01-02 15:04:05 MST" }}
  </div>
  <h2>Geometric means</h2>
  <ul id="summaries">
  {{- range .Summaries }}
    <li><strong>{{ .Column }}</strong>: {{ .Display }}{{ if .Available }} ({{ .Count }} values){{ end }}</li>
  {{- end }}
  </ul>
  <h2>Models</h2>
  <table id="rows"><thead></thead><tbody></tbody></table>
  <script>
    const data = {{ .RowsJSON }};
    const ratioColumns = new Set([4, 7, 8, 9]);
    let sortColumn = -1, ascending = true;

    function cellClass(i, v) {
      if (!ratioColumns.has(i) || v === '') return '';
      const n = parseFloat(v);
      if (n > 1) return 'good';
      if (n > 0 && n < 1) return 'bad';
      return '';
    }

    function render() {
      const head = document.querySelector('#rows thead');
      const body = document.querySelector('#rows tbody');
      head.replaceChildren();
      body.replaceChildren();

      const headRow = document.createElement('tr');
      data.header.forEach((h, i) => {
        const th = document.createElement('th');
        th.textContent = h;
        th.addEventListener('click', () => {
          ascending = sortColumn === i ? !ascending : true;
          sortColumn = i;
          data.rows.sort((a, b) => {
            const x = parseFloat(a[i]), y = parseFloat(b[i]);
            const cmp = (isNaN(x) || isNaN(y)) ? String(a[i]).localeCompare(String(b[i])) : x - y;
            return ascending ? cmp : -cmp;
          });
          render();
        });
        headRow.appendChild(th);
      });
      head.appendChild(headRow);

      data.rows.forEach(r => {
        const tr = document.createElement('tr');
        r.forEach((v, i) => {
          const td = document.createElement('td');
          td.textContent = v;
          const cls = cellClass(i, v);
          if (cls) td.className = cls;
          tr.appendChild(td);
        });
        body.appendChild(tr);
      });
    }
    render();
  </script>
</body>
</html>
`
