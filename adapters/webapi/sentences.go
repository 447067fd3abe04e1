package webapi

import (
	"net/http"

	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/service"
	"github.com/labstack/echo/v4"
)

func Sentences(group *echo.Group, svc *service.Service) {
	group.GET("", func(c echo.Context) error {
		res, err := svc.ListSentences(c.Request().Context(), c.QueryParam("corpus"))
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, map[string]any{
			"sentences": res,
		})
	})

	group.GET("/:id", func(c echo.Context) error {
		sentence, err := svc.FindSentence(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, map[string]any{
			"sentence": sentence,
		})
	})

	group.GET("/:id/extraction", func(c echo.Context) error {
		output := OutputOptions{
			TrackRules:   c.QueryParam("rules") == "true",
			Linearize:    c.QueryParam("linearize") == "true",
			Graph:        c.QueryParam("graph") == "true",
			Performative: c.QueryParam("performative") == "true",
		}

		res, err := svc.ExtractStored(c.Request().Context(), c.Param("id"), nil)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, map[string]any{
			"result": newExtractResult(&res.Sentence, res.Extraction, output),
		})
	})

	group.POST("", func(c echo.Context) error {
		sentence := predpatt.Sentence{}
		if err := c.Bind(&sentence); err != nil {
			return err
		}
		if len(sentence.Parse.Tokens) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Parse cannot be left blank",
			})
		}

		res, err := svc.SaveSentence(c.Request().Context(), sentence, c.QueryParam("dry") == "true")
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, map[string]any{
			"sentence": *res,
		})
	})

	group.DELETE("/:id", func(c echo.Context) error {
		sentence, err := svc.DeleteSentence(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, map[string]any{
			"sentence": sentence,
		})
	})
}
