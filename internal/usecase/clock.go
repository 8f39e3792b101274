package usecase

import (
	"time"

	"github.com/google/uuid"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// IDGenerator は冪等キーの発行
type IDGenerator interface {
	NewString() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewString() string { return uuid.NewString() }
