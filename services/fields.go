package services

import (
	"time"

	"questlog/serializers"
)

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func emptyToNil(s *string) *string {
	if s != nil && *s == "" {
		return nil
	}
	return s
}

// parseDate parses a date that has already passed the datetime validator.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(serializers.DateLayout, s, time.UTC)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
