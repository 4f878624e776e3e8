package cli

import (
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/language"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// userError turns a service error into the message shown to the user.
// Validation messages are shown verbatim, everything else is translated;
// fallbackKey covers errors without a dedicated message.
func userError(lang *language.Service, err error, fallbackKey string) error {
	log.Debug().Err(err).Msg("Command failed")

	var validationErr *apperrors.ValidationError
	switch {
	case apperrors.As(err, &validationErr) && validationErr.Message != "":
		return errors.New(validationErr.Message)
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return errors.New(lang.Translate("auth.invalid-credentials"))
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return errors.New(lang.Translate("auth.session-expired"))
	case apperrors.Is(err, apperrors.ErrForbidden):
		return errors.New(lang.Translate("error.unauthorized"))
	default:
		return errors.New(lang.Translate(fallbackKey))
	}
}
