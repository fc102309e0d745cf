package service

import (
	"github.com/deppfellow/agify-lambda/internal/server"
)

// Services groups every service so entry points receive a single object.
type Services struct {
	Age *AgeService
}

func NewServices(s *server.Server) *Services {
	return &Services{
		Age: NewAgeService(s),
	}
}
