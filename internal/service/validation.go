package service

import (
	"cmp"
	"fmt"
	"math"
	"strings"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/model"
	"github.com/shopspring/decimal"
)

type enum interface {
	~string
	Valid() bool
}

func validateEnum[E enum](field string, value E) error {
	if !value.Valid() {
		return apperror.InvalidArgument("invalid %s: %q", field, string(value))
	}
	return nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.InvalidArgument("%s must not be empty", field)
	}
	return nil
}

// validateBounds checks optional inclusive bounds: each must lie in
// [floor, ceiling] and min must not exceed max. A nil ceiling means unbounded.
func validateBounds[T cmp.Ordered](field string, min, max *T, floor T, ceiling *T) error {
	for _, b := range []struct {
		name  string
		value *T
	}{{"min_" + field, min}, {"max_" + field, max}} {
		if b.value == nil {
			continue
		}
		if *b.value < floor {
			return apperror.InvalidArgument("%s must be at least %v", b.name, floor)
		}
		if ceiling != nil && *b.value > *ceiling {
			return apperror.InvalidArgument("%s must be at most %v", b.name, *ceiling)
		}
	}
	if min != nil && max != nil && *min > *max {
		return apperror.InvalidArgument("min_%s cannot be greater than max_%s", field, field)
	}
	return nil
}

func validateScore(score float64) error {
	if math.IsNaN(score) || score < model.MinScore || score > model.MaxScore {
		return apperror.InvalidArgument("score must be between %v and %v", model.MinScore, model.MaxScore)
	}
	return nil
}

func validateScoreBounds(field string, min, max *float64) error {
	ceiling := model.MaxScore
	return validateBounds(field, min, max, model.MinScore, &ceiling)
}

func validateAmountBounds(min, max *decimal.Decimal) error {
	if min != nil && min.IsNegative() {
		return apperror.InvalidArgument("min_amount must not be negative")
	}
	if max != nil && max.IsNegative() {
		return apperror.InvalidArgument("max_amount must not be negative")
	}
	if min != nil && max != nil && min.GreaterThan(*max) {
		return apperror.InvalidArgument("min_amount cannot be greater than max_amount")
	}
	return nil
}

func lockKey(kind string, ids ...uint) string {
	parts := make([]string, 0, len(ids)+1)
	parts = append(parts, kind)
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ":")
}
