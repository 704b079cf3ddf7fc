package repository

import "errors"

var (
	// ErrProductNotFound is returned when no product matches the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrObservationNotFound is returned when a product has no recorded observations yet.
	ErrObservationNotFound = errors.New("price observation not found")
	// ErrOfferNotFound is returned when no offer has been recorded for a URL.
	ErrOfferNotFound = errors.New("offer not found")
)
