package models

import "time"

// ZoneAlert is published when the monitored price enters a zone's tolerance
// band. Carried over Kafka to the delivery worker.
type ZoneAlert struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Zone      Zone      `json:"zone"`
	Tolerance float64   `json:"tolerance"`
}
