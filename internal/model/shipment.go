package model

import "strings"

// Mode is the mode of transport for an export shipment.
type Mode string

const (
	ModeAir   Mode = "Air"
	ModeRail  Mode = "Rail"
	ModeTruck Mode = "Truck"
	ModeOcean Mode = "Ocean"
)

// ParseMode normalizes a user-supplied transport mode. Unknown or empty
// values default to Truck, the most common mode for Canadian exports.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "air":
		return ModeAir
	case "rail":
		return ModeRail
	case "ocean", "marine", "sea", "vessel":
		return ModeOcean
	default:
		return ModeTruck
	}
}

// ShipmentInput holds the user-supplied shipment fields for one request.
// It is created once per request and passed by value through the pipeline;
// nil pointer fields mean "not provided".
type ShipmentInput struct {
	TypedAmount   *float64 `json:"typed_amount,omitempty"`
	TypedCurrency string   `json:"typed_currency,omitempty"`
	Destination   string   `json:"destination"`
	OriginCountry string   `json:"origin_country,omitempty"`
	Mode          Mode     `json:"mode"`
	POR           string   `json:"por,omitempty"`
}
