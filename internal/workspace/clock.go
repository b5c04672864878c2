package workspace

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time to the store.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock reads the wall clock in UTC.
var SystemClock Clock = systemClock{}

// IDFunc generates entity identifiers.
type IDFunc func() string

// NewID is the default IDFunc.
func NewID() string { return uuid.NewString() }
