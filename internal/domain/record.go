package domain

import (
	"math"
	"strconv"
	"strings"
)

// Address record field names, shared by every data source.
const (
	FieldProvinceName = "province_name"
	FieldDistrictName = "district_name"
	FieldTownship     = "township"
	FieldRoadName     = "road_name"
	FieldFullAddress  = "full_address"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
)

// RecordFields lists the fields copied into an event destination, in wire order.
var RecordFields = []string{
	FieldProvinceName,
	FieldDistrictName,
	FieldTownship,
	FieldRoadName,
	FieldFullAddress,
	FieldLatitude,
	FieldLongitude,
}

// KeyPrefix is the namespace of synthetic address keys.
const KeyPrefix = "addr:"

// Record is one address entry keyed by field name.
type Record map[string]string

// Field returns the trimmed value of name, or "" when absent.
func (r Record) Field(name string) string {
	return strings.TrimSpace(r[name])
}

// Float parses name as a finite float64, returning 0 on failure.
func (r Record) Float(name string) float64 {
	return parseFloatOrZero(r[name])
}

// AddressKey builds the synthetic key for the n-th record (1-based).
func AddressKey(n int) string {
	return KeyPrefix + strconv.Itoa(n)
}

// ParseAddressKey extracts n from "addr:<n>". ok is false for any other shape.
func ParseAddressKey(key string) (n int, ok bool) {
	rest, found := strings.CutPrefix(key, KeyPrefix)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// parseFloatOrZero parses a string as float64, returning 0 on failure or for
// values JSON cannot represent.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
