package domain

import (
	"bytes"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// EventType is the fixed type tag of every generated event.
const EventType = "/delivery_request"

const (
	// DatetimeLayout formats Event.Datetime with millisecond precision.
	DatetimeLayout = "2006-01-02 15:04:05.000"

	// idTimeLayout is the second-precision timestamp embedded in event IDs.
	idTimeLayout = "20060102150405"
)

// Destination is the delivery address copied from a sampled record.
// Every field is always serialized.
type Destination struct {
	ProvinceName string  `json:"province_name"`
	DistrictName string  `json:"district_name"`
	Township     string  `json:"township"`
	RoadName     string  `json:"road_name"`
	FullAddress  string  `json:"full_address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Event is the payload published to the transport.
type Event struct {
	EventID     string      `json:"event_id"`
	Type        string      `json:"type"`
	Datetime    string      `json:"datetime"`
	HubStation  string      `json:"hub_station"`
	SubStation  string      `json:"sub_station"`
	Destination Destination `json:"destination"`
}

// NewDestination copies a record into a destination, applying field defaults.
// A nil record yields the zero destination.
func NewDestination(r Record) Destination {
	return Destination{
		ProvinceName: r.Field(FieldProvinceName),
		DistrictName: r.Field(FieldDistrictName),
		Township:     r.Field(FieldTownship),
		RoadName:     r.Field(FieldRoadName),
		FullAddress:  r.Field(FieldFullAddress),
		Latitude:     r.Float(FieldLatitude),
		Longitude:    r.Float(FieldLongitude),
	}
}

// FormatEventID renders "EVT-<yyyymmddHHMMSS>-<suffix>".
func FormatEventID(t time.Time, suffix int) string {
	return fmt.Sprintf("EVT-%s-%04d", t.UTC().Format(idTimeLayout), suffix)
}

// FormatDatetime renders t in UTC with millisecond precision.
func FormatDatetime(t time.Time) string {
	return t.UTC().Format(DatetimeLayout)
}

// MarshalEvent encodes an event as compact JSON for the wire.
func MarshalEvent(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("serialize event %s: %w", e.EventID, err)
	}
	return data, nil
}

// MarshalEventIndent encodes an event as human-readable JSON. Non-ASCII text
// and HTML characters are written literally.
func MarshalEventIndent(e Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("serialize event %s: %w", e.EventID, err)
	}
	return buf.Bytes(), nil
}
