// README: Location snapshot record.
package location

import (
	"time"

	"javai/internal/types"
)

// Snapshot is a periodic position sample persisted for later inspection.
type Snapshot struct {
	DriverID   types.ID
	Position   types.Point
	RecordedAt time.Time
}
