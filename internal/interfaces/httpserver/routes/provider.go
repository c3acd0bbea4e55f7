package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/janhq/amo-server/internal/interfaces/httpserver/handlers"
	v1 "github.com/janhq/amo-server/internal/interfaces/httpserver/routes/v1"
)

// Provider holds all route providers.
type Provider struct {
	V1 *v1.Routes
}

// NewProvider creates a new route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{
		V1: v1.NewRoutes(handlerProvider),
	}
}

// Register registers all routes on the engine.
func (p *Provider) Register(engine *gin.Engine) {
	p.V1.Register(engine)
}

// RouteProvider provides routes for wire.
var RouteProvider = wire.NewSet(NewProvider)
