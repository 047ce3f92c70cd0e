// Package models contains the GORM persistence models for the medishare
// tables. Domain aggregates carry no ORM tags; each model converts to and
// from its aggregate with ToDomain and FromDomain.
package models
