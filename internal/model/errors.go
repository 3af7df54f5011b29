package model

import "errors"

// Domain errors. Handlers match these with errors.Is to pick HTTP statuses;
// every rejection is recoverable and leaves no partial mutation behind.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrRegistrationNotFound  = errors.New("no registration found for this user and event")
	ErrEventInPast           = errors.New("event date has already passed")
	ErrAlreadyRegistered     = errors.New("user is already registered for this event")
	ErrOrganizerSelfRegister = errors.New("organizers cannot register for their own events")
	ErrEventFull             = errors.New("event is at full capacity")
	ErrEmailTaken            = errors.New("email already in use")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrNotAdmin              = errors.New("only admin users can manage events")
)
