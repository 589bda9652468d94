package punch

import "errors"

var (
	ErrEventNotFound = errors.New("punch event not found")
)
