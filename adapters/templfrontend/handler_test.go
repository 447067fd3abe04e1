package templfrontend

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/adapters/jsonstorage"
	"github.com/gissleh/predpatt/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = "# sent_id = s1\n" +
	"1\t<Chris>\t_\tPROPN\t_\t_\t2\tnsubj\t_\t_\n" +
	"2\tslept\t_\tVERB\t_\t_\t0\troot\t_\t_\n"

func setup(t *testing.T) *echo.Echo {
	t.Helper()

	svc := &service.Service{
		Options: predpatt.DefaultOptions(),
		Storage: jsonstorage.New(filepath.Join(t.TempDir(), "data.json")),
	}

	parse, err := predpatt.NewParse(
		[]predpatt.Token{{Position: 1, Text: "Pat", Tag: predpatt.TagPROPN}, {Position: 2, Text: "woke", Tag: predpatt.TagVERB}},
		[]predpatt.Edge{{Head: 2, Dependent: 1, Rel: "nsubj"}, {Head: 0, Dependent: 2, Rel: "root"}},
	)
	require.NoError(t, err)
	_, err = svc.SaveSentence(t.Context(), predpatt.Sentence{ID: "w1", Source: predpatt.Source{Corpus: "ewt"}, Parse: *parse}, false)
	require.NoError(t, err)

	e := echo.New()
	Endpoints(e.Group(""), svc)

	return e
}

func TestEndpoints(t *testing.T) {
	e := setup(t)

	table := []struct {
		name     string
		method   string
		target   string
		form     url.Values
		code     int
		contains []string
	}{
		{
			name:     "Index",
			method:   http.MethodGet,
			target:   "/",
			code:     http.StatusOK,
			contains: []string{`<textarea name="conllu"`, `href="/corpus/ewt"`, "(1 sentences)"},
		},
		{
			name:     "Extract",
			method:   http.MethodPost,
			target:   "/extract",
			form:     url.Values{"conllu": {input}},
			code:     http.StatusOK,
			contains: []string{"?a slept", "?a: &lt;Chris&gt;"},
		},
		{
			name:     "ExtractGarbage",
			method:   http.MethodPost,
			target:   "/extract",
			form:     url.Values{"conllu": {"1\tHi\n"}},
			code:     http.StatusUnprocessableEntity,
			contains: []string{`class="error"`},
		},
		{
			name:     "Corpus",
			method:   http.MethodGet,
			target:   "/corpus/ewt",
			code:     http.StatusOK,
			contains: []string{"?a woke", `href="/sentences/w1"`},
		},
		{
			name:   "MissingCorpus",
			method: http.MethodGet,
			target: "/corpus/gum",
			code:   http.StatusNotFound,
		},
		{
			name:     "Sentence",
			method:   http.MethodGet,
			target:   "/sentences/w1",
			code:     http.StatusOK,
			contains: []string{"?a woke [woke-root,"},
		},
		{
			name:   "MissingSentence",
			method: http.MethodGet,
			target: "/sentences/nope",
			code:   http.StatusNotFound,
		},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			req := httptest.NewRequest(row.method, row.target, strings.NewReader(row.form.Encode()))
			if row.form != nil {
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, row.code, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Body.String(), "<!doctype html>"))
			for _, s := range row.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestCorpusLinks(t *testing.T) {
	links := corpusLinks([]predpatt.Sentence{
		{Source: predpatt.Source{Corpus: "gum"}},
		{Source: predpatt.Source{Corpus: "ewt"}},
		{Source: predpatt.Source{Corpus: "gum"}},
	})

	assert.Equal(t, []corpusLink{{name: "ewt", sentences: 1}, {name: "gum", sentences: 2}}, links)
}

func TestResultsPage(t *testing.T) {
	buf := bytes.Buffer{}
	err := resultsPage("", "", []result{
		{id: "a&b", text: "x < y", formatted: "?a slept"},
		{text: "broken", err: "bad parse"},
	}).Render(t.Context(), &buf)
	require.NoError(t, err)

	assert.Equal(t,
		`<h3><a href="/sentences/a&amp;b">a&amp;b</a>: x &lt; y</h3><pre>?a slept</pre>`+
			`<h3>broken</h3><p class="error">bad parse</p>`,
		buf.String(),
	)
}
