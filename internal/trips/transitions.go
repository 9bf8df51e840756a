package trips

import (
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
)

// allowedTransitions lists the forward moves out of each status. Staying on the
// current status is always accepted.
var allowedTransitions = map[enums.TripStatus][]enums.TripStatus{
	enums.TripStatusScheduled: {enums.TripStatusInTransit, enums.TripStatusCancelled},
	enums.TripStatusInTransit: {enums.TripStatusDelivered, enums.TripStatusCancelled},
	enums.TripStatusDelivered: {enums.TripStatusCancelled},
	enums.TripStatusCancelled: {},
}

// NextStatuses returns the statuses reachable from status in one step.
func NextStatuses(status enums.TripStatus) []enums.TripStatus {
	return append([]enums.TripStatus(nil), allowedTransitions[status]...)
}

// CanTransition returns a STATE_CONFLICT error when from -> to is not allowed.
func CanTransition(from, to enums.TripStatus) error {
	if from == to {
		return nil
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
		WithDetails(map[string]any{
			"from":    from,
			"to":      to,
			"allowed": NextStatuses(from),
		})
}
