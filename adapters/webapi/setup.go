package webapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/adapters/conllu"
	"github.com/gissleh/predpatt/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func Setup(addr string, logger *zap.Logger) (*echo.Echo, <-chan error) {
	e := SetupWithoutListener(logger)

	errCh := make(chan error)
	go func() {
		defer close(errCh)

		err := e.Start(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return e, errCh
}

func SetupWithoutListener(logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CORS())
	e.Use(middleware.Gzip())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("Request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.HTTPErrorHandler = wrapError

	return e
}

func wrapError(err error, c echo.Context) {
	var httpErr *echo.HTTPError
	var bindingErr *echo.BindingError
	var syntaxErr *conllu.SyntaxError

	switch {
	case errors.As(err, &bindingErr):
		_ = c.JSON(bindingErr.Code, map[string]string{"error": fmt.Sprint(bindingErr.Message)})
	case errors.As(err, &httpErr):
		_ = c.JSON(httpErr.Code, map[string]string{"error": fmt.Sprint(httpErr.Message)})
	case errors.Is(err, predpatt.ErrReadOnly):
		_ = c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	case errors.Is(err, predpatt.ErrSentenceNotFound):
		_ = c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, predpatt.ErrMalformedParse), errors.As(err, &syntaxErr):
		_ = c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, predpatt.ErrInvalidOptions), errors.Is(err, service.ErrMissingCorpus):
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
