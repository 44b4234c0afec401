package service

import (
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

func toResponse[R any](src any) *R {
	var resp R
	if err := copier.Copy(&resp, src); err != nil {
		log.Error().Err(err).Msg("Failed to copy model to response DTO")
	}
	return &resp
}

func toResponses[R any, M any](models []M) []R {
	resp := make([]R, 0, len(models))
	if len(models) == 0 {
		return resp
	}
	if err := copier.Copy(&resp, &models); err != nil {
		log.Error().Err(err).Msg("Failed to copy models to response DTOs")
	}
	return resp
}
