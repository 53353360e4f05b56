package entity

import "time"

// ConfigEntry is one live-editable setting, stored as a single document per
// key. Values are strings, booleans or integers; typed coercion happens on
// the reading side. Keys absent from the store fall back to the compiled-in
// default table.
type ConfigEntry struct {
	Key       string      `json:"key" bson:"key"`
	Value     interface{} `json:"value" bson:"value"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
	UpdatedBy string      `json:"updated_by" bson:"updated_by"`
}
