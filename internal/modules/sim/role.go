// README: Viewer role capabilities that shape what a session renders.
package sim

import "javai/internal/modules/ride"

// ViewerRole describes what a viewer sees, as capabilities rather than a
// role tag the engine would branch on.
type ViewerRole interface {
	Name() string
	// WantsVehicleMarker reports whether the simulated car is drawn for
	// the given ride status.
	WantsVehicleMarker(s ride.Status) bool
	// WantsLiveMarker reports whether the device position is drawn.
	WantsLiveMarker(s ride.Status) bool
	// FollowsLive reports whether the viewport tracks the device position
	// when no route is on screen.
	FollowsLive() bool
}

func vehicleVisible(s ride.Status) bool {
	switch s {
	case ride.StatusAccepted, ride.StatusArrived, ride.StatusInProgress:
		return true
	}
	return false
}

// Passenger sees the assigned car once a driver accepts.
type Passenger struct{}

func (Passenger) Name() string                          { return "passenger" }
func (Passenger) WantsVehicleMarker(s ride.Status) bool { return vehicleVisible(s) }
func (Passenger) WantsLiveMarker(s ride.Status) bool    { return true }
func (Passenger) FollowsLive() bool                     { return false }

// Driver tracks the live device position; their own vehicle is never
// simulated.
type Driver struct{}

func (Driver) Name() string                          { return "driver" }
func (Driver) WantsVehicleMarker(s ride.Status) bool { return false }
func (Driver) WantsLiveMarker(s ride.Status) bool    { return true }
func (Driver) FollowsLive() bool                     { return true }

// Admin observes the live position only, without the simulated car.
type Admin struct{}

func (Admin) Name() string                          { return "admin" }
func (Admin) WantsVehicleMarker(s ride.Status) bool { return false }
func (Admin) WantsLiveMarker(s ride.Status) bool    { return true }
func (Admin) FollowsLive() bool                     { return true }
