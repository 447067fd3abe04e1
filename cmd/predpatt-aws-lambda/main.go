package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	echoadapter "github.com/awslabs/aws-lambda-go-api-proxy/echo"
	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/adapters/jsonstorage"
	"github.com/gissleh/predpatt/adapters/templfrontend"
	"github.com/gissleh/predpatt/adapters/webapi"
	"github.com/gissleh/predpatt/service"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	sourceFile := os.Getenv("PREDPATT_DATA")
	if sourceFile == "" {
		sourceFile = "./data-compiled.json"
	}

	storage, err := jsonstorage.Open(sourceFile, true)
	if err != nil {
		logger.Fatal("Failed to open json storage", zap.String("path", sourceFile), zap.Error(err))
		return
	}

	svc := &service.Service{
		Options:  predpatt.DefaultOptions(),
		Storage:  storage,
		Logger:   logger,
		ReadOnly: true,
	}
	api := webapi.SetupWithoutListener(logger)

	webapi.Extract(api.Group("/api/extract"), svc)
	webapi.Sentences(api.Group("/api/sentences"), svc)
	templfrontend.Endpoints(api.Group(""), svc)

	lambda.Start(echoadapter.New(api).ProxyWithContext)
}
