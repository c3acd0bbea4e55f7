package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/amo-server/internal/interfaces/httpserver/handlers"
)

// Routes holds the API route configuration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes creates a new routes instance.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register mounts the API at the root, where the web client expects it.
func (r *Routes) Register(engine *gin.Engine) {
	api := engine.Group("")
	RegisterChatRoutes(api, r.handlers.Chat)
	RegisterVoiceRoutes(api, r.handlers.Voice)
	RegisterSearchRoutes(api, r.handlers.Search)
	RegisterVisualRoutes(api, r.handlers.Visual)
}
