package templfrontend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/adapters/conllu"
	"github.com/gissleh/predpatt/service"
	"github.com/labstack/echo/v4"
)

func Endpoints(group *echo.Group, svc *service.Service) {
	outputHtml := func(c echo.Context, code int, component templ.Component) error {
		c.Response().Header().Add("Content-Type", "text/html; charset=utf-8")
		c.Response().WriteHeader(code)
		return component.Render(c.Request().Context(), c.Response())
	}

	group.GET("/", func(c echo.Context) error {
		sentences, err := svc.ListSentences(c.Request().Context(), "")
		if err != nil {
			return outputHtml(c, http.StatusInternalServerError, layoutWrapper("PredPatt", resultsPage("", err.Error(), nil)))
		}

		return outputHtml(c, http.StatusOK, layoutWrapper("PredPatt", indexPage(corpusLinks(sentences))))
	})

	group.POST("/extract", func(c echo.Context) error {
		input := c.FormValue("conllu")
		trackRules := c.FormValue("rules") == "true"

		sentences, err := conllu.ReadLenient(strings.NewReader(input), "input", "")
		if err == nil && len(sentences) == 0 {
			err = errors.New("no sentences in input")
		}
		if err != nil {
			return outputHtml(c, http.StatusUnprocessableEntity, layoutWrapper("PredPatt", resultsPage(input, err.Error(), nil)))
		}

		results, err := svc.ExtractCorpus(c.Request().Context(), sentences, nil)
		if err != nil {
			return outputHtml(c, http.StatusInternalServerError, layoutWrapper("PredPatt", resultsPage(input, err.Error(), nil)))
		}

		list := make([]result, 0, len(results))
		for i := range results {
			list = append(list, newResult(&results[i].Sentence, results[i].Extraction, trackRules, results[i].Error))
		}

		return outputHtml(c, http.StatusOK, layoutWrapper("PredPatt", resultsPage(input, "", list)))
	})

	group.GET("/corpus/:corpus", func(c echo.Context) error {
		corpus := c.Param("corpus")
		title := fmt.Sprintf("PredPatt – %s", corpus)

		results, err := svc.ExtractStoredCorpus(c.Request().Context(), corpus, nil)
		if err != nil {
			return outputHtml(c, http.StatusInternalServerError, layoutWrapper(title, resultsPage("", err.Error(), nil)))
		}
		if len(results) == 0 {
			return outputHtml(c, http.StatusNotFound, layoutWrapper(title, resultsPage("", "Corpus not found", nil)))
		}

		list := make([]result, 0, len(results))
		for i := range results {
			list = append(list, newResult(&results[i].Sentence, results[i].Extraction, false, results[i].Error))
		}

		return outputHtml(c, http.StatusOK, layoutWrapper(title, resultsPage("", "", list)))
	})

	group.GET("/sentences/:id", func(c echo.Context) error {
		id := c.Param("id")
		title := fmt.Sprintf("PredPatt – %s", id)

		res, err := svc.ExtractStored(c.Request().Context(), id, nil)
		if errors.Is(err, predpatt.ErrSentenceNotFound) {
			return outputHtml(c, http.StatusNotFound, layoutWrapper(title, resultsPage("", err.Error(), nil)))
		} else if err != nil {
			return outputHtml(c, http.StatusInternalServerError, layoutWrapper(title, resultsPage("", err.Error(), nil)))
		}

		r := newResult(&res.Sentence, res.Extraction, true, "")
		return outputHtml(c, http.StatusOK, layoutWrapper(title, resultsPage("", "", []result{r})))
	})
}
