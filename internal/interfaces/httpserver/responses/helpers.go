package responses

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

// HandleError writes err as a structured error response. Errors that are
// not platform errors become 500 responses carrying message.
func HandleError(c *gin.Context, err error, message string) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()

	if platformerrors.GetPlatformError(err) == nil {
		err = platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeInternal,
			message, err, "d0e1f2a3-b4c5-4d6e-8f7a-9b0c1d2e3f4a")
	}
	platformerrors.WriteError(c, err, logger)
	c.Abort()
}

// HandleNewError creates and writes a new typed error response. Use this for
// route-level failures such as malformed bodies.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message, uuid string) {
	HandleError(c, platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, uuid), message)
}
