// Package domain models synthetic delivery request events and the provider
// contracts used to produce and publish them.
//
// # Address Records
//
// An address record is a flat set of named string fields:
//
//	province_name, district_name, township, road_name, full_address,
//	latitude, longitude
//
// Coordinates are stored as text and parsed on read. Records are addressed
// by the synthetic key "addr:<n>", where n is the 1-based row number of the
// source file (or the row id of a relational source).
//
// # Lookup Tables
//
// Hub terminals are keyed "hub:<n>" with n in [1, 3]. Sub terminals are keyed
// by district name. Both tables are loaded once and never mutated.
//
// # Fallbacks
//
//	missing record        -> empty destination, "Unknown Sub"
//	missing hub key       -> "Unknown HUB"
//	missing district key  -> "Unknown Sub"
//	missing text field    -> ""
//	bad/missing lat, lon  -> 0.0 (NaN and ±Inf included)
//
// # Event IDs
//
// IDs are "EVT-<yyyymmddHHMMSS>-<nnnn>" with a random four-digit suffix. Two
// events generated in the same second can collide; that is acceptable for
// load generation and nothing downstream should treat the ID as unique.
package domain
