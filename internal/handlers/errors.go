package handlers

import (
	"errors"
	"net/http"

	"brokerage/internal/services"
	"brokerage/internal/validator"
)

// respondServiceError translates workflow/billing sentinel errors into the
// API's status codes. Anything unrecognized is a 500 with a fixed message.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInquiryNotFound),
		errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrDealNotFound),
		errors.Is(err, services.ErrPropertyNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyAccepted),
		errors.Is(err, services.ErrDealExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotOfferOwner):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrMissingBrokerName),
		errors.Is(err, services.ErrInvalidCommission),
		errors.Is(err, services.ErrInvalidPayment),
		errors.Is(err, services.ErrNotBroker),
		errors.Is(err, validator.ErrInvalidRating),
		errors.Is(err, validator.ErrInvalidTransactionType):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
