package scoring

import "errors"

var (
	ErrConfiguration  = errors.New("invalid rule configuration")
	ErrInvalidRoll    = errors.New("invalid roll")
	ErrGameComplete   = errors.New("all frames are complete")
	ErrUnknownVariant = errors.New("unknown variant")
)
