package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/amo-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

// RegisterChatRoutes registers the text chat relay.
func RegisterChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.POST("/chat", chat(handler))
}

// chat godoc
// @Summary      Chat with the shopping assistant
// @Description  Forwards the conversation to the model with the Amo advisor prompt and returns the reply.
// @Tags         Chat API
// @Accept       json
// @Produce      json
// @Param        request body requests.ChatRequest true "Conversation"
// @Success      200 {object} responses.ChatResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /chat [post]
func chat(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request format", "2f6c1e8a-4b3d-4e5f-9a7b-8c1d2e3f4a50")
			return
		}

		resp, err := handler.Chat(c.Request.Context(), &req)
		if err != nil {
			responses.HandleError(c, err, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
