package order

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrAddressNotFound      = errors.New("shipping address not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrPaymentNotSuccessful = errors.New("payment verification failed")
	ErrOrderCancelled       = errors.New("order was cancelled before payment completed")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrUnauthorized         = errors.New("unauthorized")
)
