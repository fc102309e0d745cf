package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/agify-lambda/internal/server"
	"github.com/deppfellow/agify-lambda/internal/service"
)

// PredictHandler exposes the age prediction over HTTP.
type PredictHandler struct {
	Handler
	ageService *service.AgeService
}

func NewPredictHandler(s *server.Server, services *service.Services) *PredictHandler {
	return &PredictHandler{
		Handler:    NewHandler(s),
		ageService: services.Age,
	}
}

// Predict serves GET /predict?name=... and POST /predict with a JSON event.
//
// A "name" query parameter is used when the body is empty. The envelope is
// mapped onto the HTTP response.
func (h *PredictHandler) Predict(c echo.Context) error {
	return handleRequest(c, h.predict, ProxyResponseHandler{})
}

// Invoke serves POST /invoke and returns the envelope itself with 200.
func (h *PredictHandler) Invoke(c echo.Context) error {
	return handleRequest(c, h.predict, InvokeResponseHandler{status: http.StatusOK})
}

func (h *PredictHandler) predict(c echo.Context, payload []byte) service.Envelope {
	ctx := c.Request().Context()

	if len(payload) == 0 && c.QueryParams().Has("name") {
		return h.ageService.Predict(ctx, service.Request{"name": c.QueryParam("name")})
	}

	return h.ageService.PredictEvent(ctx, payload)
}
