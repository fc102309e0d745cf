// Command lambda is the AWS Lambda entry point of the age prediction
// function.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/newrelic/go-agent/v3/integrations/nrlambda"
	"github.com/rs/zerolog/log"

	"github.com/deppfellow/agify-lambda/internal/config"
	"github.com/deppfellow/agify-lambda/internal/handler"
	"github.com/deppfellow/agify-lambda/internal/logger"
	"github.com/deppfellow/agify-lambda/internal/server"
	"github.com/deppfellow/agify-lambda/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability, nrlambda.ConfigOption())
	appLogger := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &appLogger, loggerService)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize server")
	}

	h := handler.NewHandlers(srv, service.NewServices(srv))

	if app := loggerService.GetApplication(); app != nil {
		appLogger.Info().Msg("starting lambda with New Relic instrumentation")
		nrlambda.Start(h.Lambda.Handle, app)
		return
	}

	appLogger.Info().Msg("starting lambda")
	lambda.Start(h.Lambda.Handle)
}
