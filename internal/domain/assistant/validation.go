package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	msgInvalidRequest   = "Invalid request format"
	msgMessagesRequired = "Messages array is required"
	msgInvalidVoice     = "Invalid voice. Must be one of: " + strings.Join(SpeechVoices, ", ")
	msgInvalidSpeed     = "Speed must be between 0.25 and 4.0"
	msgTextRequired     = "Text is required and must be a string"
	msgTextTooLong      = "Text must be 4096 characters or less"
	msgCriteriaRequired = "Search criteria is required"
	msgNoAudio          = "No audio file provided"
	msgAudioTooLarge    = "Audio file too large. Maximum size is 25MB."
)

// fieldMessages maps "<field>.<tag>" to the message returned to clients.
var fieldMessages = map[string]string{
	"Text.required":     msgTextRequired,
	"Text.max":          msgTextTooLong,
	"Voice.oneof":       msgInvalidVoice,
	"Speed.gte":         msgInvalidSpeed,
	"Speed.lte":         msgInvalidSpeed,
	"Criteria.required": msgCriteriaRequired,
}

// validateStruct runs struct validation and converts the first failure into
// a validation PlatformError. fallback is used for fields without a
// dedicated message.
func validateStruct(ctx context.Context, v any, fallback, errUUID string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	msg := fallback
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if m, ok := fieldMessages[verrs[0].StructField()+"."+verrs[0].Tag()]; ok {
			msg = m
		}
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, msg, err, errUUID)
}
