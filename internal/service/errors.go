package service

import "errors"

var (
	// ErrNoProviderAvailable is returned when no provider can be matched.
	ErrNoProviderAvailable = errors.New("no provider available")

	// ErrRequestNotPending is returned when trying to match a request not in PENDENTE state.
	ErrRequestNotPending = errors.New("request not pending")

	// ErrInvalidRequesterID is returned when the requester ID is empty.
	ErrInvalidRequesterID = errors.New("invalid requester id")

	// ErrInvalidRequestID is returned when the request ID is empty.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrInvalidProviderID is returned when the provider ID is empty.
	ErrInvalidProviderID = errors.New("invalid provider id")

	// ErrInvalidOrigin is returned when origin coordinates are invalid.
	ErrInvalidOrigin = errors.New("invalid origin location")

	// ErrInvalidDestination is returned when destination coordinates are invalid.
	ErrInvalidDestination = errors.New("invalid destination location")

	// ErrInvalidDescription is returned when the request description is empty.
	ErrInvalidDescription = errors.New("invalid description")

	// ErrInvalidCategory is returned when the service category is unknown.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrRequestAlreadyCancelled is returned when cancelling an already cancelled request.
	ErrRequestAlreadyCancelled = errors.New("request already cancelled")

	// ErrRequestCannotBeCancelled is returned when a request is in a state that cannot be cancelled.
	ErrRequestCannotBeCancelled = errors.New("request cannot be cancelled in current state")

	// ErrRequestNotInProgress is returned when completing a request that is not EM_ANDAMENTO.
	ErrRequestNotInProgress = errors.New("request not in progress")

	// ErrProviderNotAssigned is returned when a provider acts on a request assigned to someone else.
	ErrProviderNotAssigned = errors.New("provider not assigned to this request")

	// ErrProviderBusy is returned when a provider accepts while already on a request.
	ErrProviderBusy = errors.New("provider already on a request")

	// ErrInvalidAmount is returned when a monetary amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidPixKey is returned when a withdrawal PIX key fails its shape check.
	ErrInvalidPixKey = errors.New("invalid pix key")

	// ErrRequestAlreadyPaid is returned when paying for a request twice.
	ErrRequestAlreadyPaid = errors.New("request already paid")

	// ErrChargeNotPending is returned when confirming a charge that is not PENDING.
	ErrChargeNotPending = errors.New("charge not pending")

	// ErrEmailInUse is returned when registering with an email that already exists.
	ErrEmailInUse = errors.New("email already in use")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword is returned when a password fails the signup rule.
	ErrWeakPassword = errors.New("password does not meet requirements")

	// ErrInvalidAccountType is returned when the account type is unknown.
	ErrInvalidAccountType = errors.New("invalid account type")

	// ErrInvalidToken is returned when a bearer token fails validation.
	ErrInvalidToken = errors.New("invalid or expired token")
)
