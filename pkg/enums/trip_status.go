package enums

import (
	"fmt"
	"strings"
)

// TripStatus tracks where a fuel delivery is in its lifecycle.
type TripStatus string

const (
	TripStatusScheduled TripStatus = "Scheduled"
	TripStatusInTransit TripStatus = "InTransit"
	TripStatusDelivered TripStatus = "Delivered"
	TripStatusCancelled TripStatus = "Cancelled"
)

var validTripStatuses = []TripStatus{
	TripStatusScheduled,
	TripStatusInTransit,
	TripStatusDelivered,
	TripStatusCancelled,
}

var legacyTripStatuses = map[string]TripStatus{
	"programado":  TripStatusScheduled,
	"en tránsito": TripStatusInTransit,
	"en transito": TripStatusInTransit,
	"entregado":   TripStatusDelivered,
	"cancelado":   TripStatusCancelled,
}

// TripStatuses returns the known statuses in lifecycle order.
func TripStatuses() []TripStatus {
	return append([]TripStatus(nil), validTripStatuses...)
}

// String implements fmt.Stringer.
func (s TripStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TripStatus.
func (s TripStatus) IsValid() bool {
	for _, candidate := range validTripStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave this status.
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCancelled
}

// ParseTripStatus converts raw input into a TripStatus. Canonical names are
// matched case-insensitively and the Spanish labels are accepted as aliases.
func ParseTripStatus(value string) (TripStatus, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validTripStatuses {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	if status, ok := legacyTripStatuses[strings.ToLower(trimmed)]; ok {
		return status, nil
	}
	return "", fmt.Errorf("invalid trip status %q", value)
}
