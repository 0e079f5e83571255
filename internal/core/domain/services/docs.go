// Package services contains stateless domain services that operate across
// aggregates: the deal matcher that filters the open pool for a transporter
// by vehicle class, decline history and service-range geofence.
package services
