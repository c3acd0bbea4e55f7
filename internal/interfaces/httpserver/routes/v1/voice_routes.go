package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/amo-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

// multipartOverhead is allowed on top of the audio limit for the form
// envelope.
const multipartOverhead = 1 << 20

// RegisterVoiceRoutes registers the voice relays and realtime provisioning.
func RegisterVoiceRoutes(router gin.IRoutes, handler *handlers.VoiceHandler) {
	router.POST("/voice/realtime-session", createRealtimeSession(handler))
	router.GET("/voice/realtime-sessions", listRealtimeSessions(handler))
	router.POST("/voice/chat-voice", chatVoice(handler))
	router.POST("/voice/synthesize", synthesize(handler))
	router.POST("/voice/transcribe", transcribe(handler))
}

// createRealtimeSession godoc
// @Summary      Create a realtime voice session
// @Description  Mints an ephemeral provider credential for a live WebRTC session. The provider payload is returned unchanged. All body fields are optional.
// @Tags         Voice API
// @Accept       json
// @Produce      json
// @Param        request body requests.RealtimeSessionRequest false "Session overrides"
// @Success      200 {object} object
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /voice/realtime-session [post]
func createRealtimeSession(handler *handlers.VoiceHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.RealtimeSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request format", "8e2a4c6b-1d3f-4a5b-9c7d-0e2f4a6b8c1d")
			return
		}

		cred, err := handler.CreateRealtimeSession(c.Request.Context(), &req)
		if err != nil {
			responses.HandleError(c, err, "Failed to create session")
			return
		}

		if len(cred.Raw) == 0 {
			c.JSON(http.StatusOK, cred)
			return
		}
		c.Data(http.StatusOK, "application/json", cred.Raw)
	}
}

// listRealtimeSessions godoc
// @Summary      List realtime sessions
// @Description  Lists credentials issued by this server that have not expired. Secrets are never included.
// @Tags         Voice API
// @Produce      json
// @Success      200 {object} realtime.ListLeasesResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /voice/realtime-sessions [get]
func listRealtimeSessions(handler *handlers.VoiceHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := handler.ListRealtimeSessions(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err, "Failed to list sessions")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// chatVoice godoc
// @Summary      Voice chat round-trip
// @Description  Answers the conversation with the voice prompt and returns the reply text with base64 MP3 audio.
// @Tags         Voice API
// @Accept       json
// @Produce      json
// @Param        request body requests.VoiceChatRequest true "Conversation and voice options"
// @Success      200 {object} responses.VoiceChatResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /voice/chat-voice [post]
func chatVoice(handler *handlers.VoiceHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.VoiceChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Messages array is required", "4b6d8f0a-2c4e-4f6a-8b0c-2d4e6f8a0b2c")
			return
		}

		resp, err := handler.ChatVoice(c.Request.Context(), &req)
		if err != nil {
			responses.HandleError(c, err, "Voice chat failed")
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// synthesize godoc
// @Summary      Synthesize speech
// @Description  Converts text to MP3 audio.
// @Tags         Voice API
// @Accept       json
// @Produce      audio/mpeg
// @Param        request body requests.SynthesizeRequest true "Text and voice options"
// @Success      200 {file} binary
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /voice/synthesize [post]
func synthesize(handler *handlers.VoiceHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.SynthesizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request format", "6d8f0a2c-4e6a-4b8c-9d0e-4f6a8b0c2d4e")
			return
		}

		audio, err := handler.Synthesize(c.Request.Context(), &req)
		if err != nil {
			responses.HandleError(c, err, "Speech synthesis failed")
			return
		}

		c.Data(http.StatusOK, "audio/mpeg", audio)
	}
}

// transcribe godoc
// @Summary      Transcribe audio
// @Description  Converts an uploaded recording (max 25MB) to English text.
// @Tags         Voice API
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio formData file true "Recording"
// @Success      200 {object} responses.TranscribeResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /voice/transcribe [post]
func transcribe(handler *handlers.VoiceHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := handler.UploadLimit()
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

		header, err := c.FormFile("audio")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.HandleNewError(c, platformerrors.ErrorTypePayloadTooLarge, "Audio file too large. Maximum size is 25MB.", "0a2c4e6f-8b0d-4f2a-9c4e-6f8a0b2c4d6e")
				return
			}
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "No audio file provided", "a2c4e6f8-0b2d-4a4c-8e6f-8a0b2c4d6e8f")
			return
		}
		if header.Size > limit {
			responses.HandleNewError(c, platformerrors.ErrorTypePayloadTooLarge, "Audio file too large. Maximum size is 25MB.", "c4e6f8a0-2d4f-4c6e-9a8b-0c2d4e6f8a0b")
			return
		}

		file, err := header.Open()
		if err != nil {
			responses.HandleError(c, err, "Failed to read audio file")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			responses.HandleError(c, err, "Failed to read audio file")
			return
		}

		resp, err := handler.Transcribe(c.Request.Context(), header.Filename, data)
		if err != nil {
			responses.HandleError(c, err, "Transcription failed")
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
