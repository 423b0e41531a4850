package graphql

import (
	"errors"

	"github.com/rs/zerolog/log"

	"library-backend/internal/shared/errs"
)

// resolverError hands graphql-go the *errs.Error itself, since it reads
// Extensions with a plain type assertion. Anything else is logged and
// masked as an internal error.
func resolverError(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		if e.Kind == errs.KindInternal || e.Kind == errs.KindPersistence {
			log.Error().Str("code", string(e.Kind)).Msg(e.Cause())
		}
		return e
	}
	log.Error().Err(err).Msg("unexpected resolver error")
	return errs.Internal("internal server error", err)
}
