package webapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/adapters/conllu"
	"github.com/gissleh/predpatt/service"
	"github.com/labstack/echo/v4"
)

// OutputOptions picks the renderings added next to each extraction.
type OutputOptions struct {
	TrackRules   bool `json:"trackRules"`
	Linearize    bool `json:"linearize"`
	Graph        bool `json:"graph"`
	Performative bool `json:"performative"`
}

type extractRequest struct {
	Parse   *predpatt.Parse   `json:"parse"`
	CoNLLU  string            `json:"conllu"`
	Options *predpatt.Options `json:"options"`
	Output  OutputOptions     `json:"output"`
}

type corpusRequest struct {
	Corpus  string            `json:"corpus"`
	Options *predpatt.Options `json:"options"`
	Output  OutputOptions     `json:"output"`
}

type extractResult struct {
	SentenceID string               `json:"sentenceId,omitempty"`
	Text       string               `json:"text"`
	Extraction *predpatt.Extraction `json:"extraction,omitempty"`
	Formatted  string               `json:"formatted,omitempty"`
	Linearized string               `json:"linearized,omitempty"`
	Graph      *predpatt.Graph      `json:"graph,omitempty"`
	Error      string               `json:"error,omitempty"`
}

func newExtractResult(sentence *predpatt.Sentence, ex *predpatt.Extraction, output OutputOptions) extractResult {
	res := extractResult{
		SentenceID: sentence.ID,
		Text:       sentence.DisplayText(),
		Extraction: ex,
	}
	if ex == nil {
		return res
	}

	res.Formatted = ex.Format(output.TrackRules)
	if output.Linearize {
		res.Linearized = predpatt.Linearize(ex, predpatt.DefaultLinearizeOptions())
	}
	if output.Graph {
		res.Graph = predpatt.Project(ex, sentence.ID)
		if output.Performative {
			res.Graph.AddPerformative()
		}
	}

	return res
}

// requestOptions starts from the service options, so a request only names the options it changes.
func requestOptions(svc *service.Service) *predpatt.Options {
	opts := svc.Options
	opts.Filters = append([]predpatt.FilterName(nil), svc.Options.Filters...)

	return &opts
}

func Extract(group *echo.Group, svc *service.Service) {
	group.POST("", func(c echo.Context) error {
		req := extractRequest{Options: requestOptions(svc)}
		if err := c.Bind(&req); err != nil {
			return err
		}

		start := time.Now()

		var sentences []predpatt.Sentence
		switch {
		case req.Parse != nil:
			sentences = []predpatt.Sentence{{Parse: *req.Parse}}
		case strings.TrimSpace(req.CoNLLU) != "":
			read, err := conllu.ReadLenient(strings.NewReader(req.CoNLLU), "request", "")
			if err != nil {
				return err
			}
			sentences = read
		default:
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Either parse or conllu must be given",
			})
		}

		if req.Parse != nil {
			ex, err := svc.Extract(c.Request().Context(), &sentences[0].Parse, req.Options)
			if err != nil {
				return err
			}

			return c.JSON(http.StatusOK, map[string]any{
				"results":     []extractResult{newExtractResult(&sentences[0], ex, req.Output)},
				"executionMs": float64(time.Since(start)) / float64(time.Millisecond),
			})
		}

		results, err := svc.ExtractCorpus(c.Request().Context(), sentences, req.Options)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, map[string]any{
			"results":     extractResults(results, req.Output),
			"executionMs": float64(time.Since(start)) / float64(time.Millisecond),
		})
	})

	group.POST("/corpus", func(c echo.Context) error {
		req := corpusRequest{Options: requestOptions(svc)}
		if err := c.Bind(&req); err != nil {
			return err
		}

		start := time.Now()
		results, err := svc.ExtractStoredCorpus(c.Request().Context(), req.Corpus, req.Options)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, map[string]any{
			"results":     extractResults(results, req.Output),
			"executionMs": float64(time.Since(start)) / float64(time.Millisecond),
		})
	})
}

func extractResults(results []service.SentenceResult, output OutputOptions) []extractResult {
	res := make([]extractResult, 0, len(results))
	for i := range results {
		r := newExtractResult(&results[i].Sentence, results[i].Extraction, output)
		r.Error = results[i].Error
		res = append(res, r)
	}

	return res
}
