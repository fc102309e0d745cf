package handler

import (
	"github.com/deppfellow/agify-lambda/internal/server"
	"github.com/deppfellow/agify-lambda/internal/service"
)

// Handlers groups every handler so the router and cmd/lambda receive a
// single object.
type Handlers struct {
	Health  *HealthHandler  // Health serves GET /status.
	Predict *PredictHandler // Predict serves /predict and /invoke.
	Lambda  *LambdaHandler  // Lambda is the function entry point.
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		Predict: NewPredictHandler(s, services),
		Lambda:  NewLambdaHandler(s, services),
	}
}
