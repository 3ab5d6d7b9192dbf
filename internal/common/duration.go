package common

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	iso8601 "github.com/senseyeio/duration"
)

// ParseDuration accepts Go durations (90s, 5m) and ISO 8601 durations
// (PT90S, PT5M).
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed, nil
	}
	if parsed, err := iso8601.ParseISO8601(value); err == nil {
		reference := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		return parsed.Shift(reference).Sub(reference), nil
	}

	return 0, fmt.Errorf("invalid duration format: %s. Expect ISO 8601 or duration string", value)
}

// DurationHook decodes duration strings with ParseDuration.
func DurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != durationType {
			return data, nil
		}
		return ParseDuration(reflect.ValueOf(data).String())
	}
}
