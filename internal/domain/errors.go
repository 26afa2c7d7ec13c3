package domain

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrSoldOut          = errors.New("event sold out")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrDuplicateTicket  = errors.New("duplicate ticket id")
	ErrSignatureInvalid = errors.New("webhook signature invalid")
	ErrPayloadTooLarge  = errors.New("qr payload too large")
	ErrBuyerRequired    = errors.New("buyer identity required")
	ErrInvalidID        = errors.New("invalid id")
)
