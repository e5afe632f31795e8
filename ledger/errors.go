package ledger

import "errors"

var (
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrInvalidSide          = errors.New("side must be buy or sell")
	ErrInvalidSymbol        = errors.New("symbol is required")
	ErrInsufficientPosition = errors.New("no position to sell")
	ErrInsufficientShares   = errors.New("not enough shares to sell")
	ErrPositionExists       = errors.New("position already exists")
)
