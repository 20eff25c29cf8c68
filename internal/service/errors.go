package service

import "errors"

var (
	// ErrInvalidLocation is returned when a trip location is missing or
	// its coordinates are out of range. Blocks trip creation and update.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidOwnerID is returned when owner ID is empty on a write.
	ErrInvalidOwnerID = errors.New("invalid owner id")

	// ErrInvalidDate is returned when a record date is absent.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRecordID is returned when a resource record ID is empty.
	ErrInvalidRecordID = errors.New("invalid record id")

	// ErrInvalidCategory is returned when a resource category is empty.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidEmissionType is returned when an emission type is
	// malformed (empty name or negative factor).
	ErrInvalidEmissionType = errors.New("invalid emission type")

	// ErrMissingYear is returned when report generation is requested
	// without a year.
	ErrMissingYear = errors.New("missing year")

	// ErrMissingOwner is returned when the owner cannot be resolved from
	// the request or the authenticated caller.
	ErrMissingOwner = errors.New("missing owner")

	// ErrInvalidReportID is returned when a report ID is empty.
	ErrInvalidReportID = errors.New("invalid report id")

	// ErrInvalidReportKey is returned when a report key is empty.
	ErrInvalidReportKey = errors.New("invalid report key")
)
