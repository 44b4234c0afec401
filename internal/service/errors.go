package service

import (
	"context"
	"errors"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/lock"
	"github.com/lshigami/examhub/internal/repository"
	"github.com/rs/zerolog/log"
)

// lookupErr turns a failed lookup into NotFound, or into a storage failure
// when the record might exist.
func lookupErr(err error, op string, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(format, args...)
	}
	return storageErr(err, op)
}

func storageErr(err error, op string) error {
	log.Error().Err(err).Str("op", op).Msg("Storage operation failed")
	return apperror.Wrap(err, op)
}

// writeErr reports unique index violations as Conflict with msg.
func writeErr(err error, op string, msg string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		log.Warn().Err(err).Str("op", op).Msg("Unique constraint rejected write")
		return apperror.Conflict("%s", msg)
	}
	return storageErr(err, op)
}

// acquire takes the per-key locks in order and returns a release func that
// frees them in reverse.
func acquire(ctx context.Context, locker lock.Locker, keys ...string) (func(), error) {
	releases := make([]func(), 0, len(keys))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, key := range keys {
		release, err := locker.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			log.Warn().Err(err).Str("key", key).Msg("Could not acquire lock")
			return nil, apperror.Unavailable(err, "resource is busy, retry later")
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
