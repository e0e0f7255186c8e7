package cli

import (
	"context"

	"github.com/fpang/paint-visualizer/internal/auth"
	"github.com/rs/zerolog/log"
)

// InitAPIKey retrieves the Gemini API key and, unless skipValidation is set,
// checks it with a minimal API call. Exits fatally on failure.
func InitAPIKey(ctx context.Context, skipValidation bool) string {
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		HandleValidationError(&auth.ValidationError{Type: auth.ErrTypeNoKey, Message: err.Error()})
	}

	if skipValidation {
		log.Debug().Msg("Skipping API key validation")
		return apiKey
	}

	client, err := auth.NewClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Gemini client")
	}
	if err := auth.ValidateAPIKey(ctx, client); err != nil {
		HandleValidationError(err)
	}

	log.Info().Msg("API key validation complete - ready for operations")
	return apiKey
}
