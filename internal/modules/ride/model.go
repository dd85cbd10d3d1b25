// README: Ride aggregate, status definitions and the transition table.
package ride

import (
	"time"

	"javai/internal/types"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSearching  Status = "searching"
	StatusAccepted   Status = "accepted"
	StatusArrived    Status = "arrived"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type VehicleType string

const (
	VehicleStandard VehicleType = "standard"
	VehicleComfort  VehicleType = "comfort"
	VehicleBlack    VehicleType = "black"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPix        PaymentMethod = "pix"
	PaymentWallet     PaymentMethod = "wallet"
	PaymentCash       PaymentMethod = "cash"
)

type Ride struct {
	ID               types.ID       `json:"id"`
	PassengerID      types.ID       `json:"passengerId"`
	Pickup           types.Location `json:"pickup"`
	Dropoff          types.Location `json:"dropoff"`
	VehicleType      VehicleType    `json:"vehicleType"`
	PaymentMethod    PaymentMethod  `json:"paymentMethod"`
	Price            types.Money    `json:"price"`
	DistanceKm       float64        `json:"distanceKm"`
	EstimatedTimeMin int            `json:"estimatedTimeMin"`
	Status           Status         `json:"status"`
	DriverID         *types.ID      `json:"driverId,omitempty"`
	DriverVehicle    string         `json:"driverVehicle,omitempty"`
	DriverPlate      string         `json:"driverPlate,omitempty"`
	Rating           *int           `json:"rating,omitempty"`
	RequestedAt      time.Time      `json:"requestedAt"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty"`
}

// Transition is emitted to subscribers on every status change.
type Transition struct {
	RideID types.ID  `json:"rideId"`
	From   Status    `json:"from"`
	To     Status    `json:"to"`
	At     time.Time `json:"at"`
}

// AllowedTransitions represents the ride state flow (diagram) as code.
// Completed and Cancelled both drain back to Idle so the session can
// request again.
var AllowedTransitions = map[Status][]Status{
	StatusIdle:       {StatusSearching},
	StatusSearching:  {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusArrived, StatusInProgress, StatusCancelled},
	StatusArrived:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {StatusIdle},
	StatusCancelled:  {StatusIdle},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status only drains back to Idle.
func Terminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}
