package id

import (
	"github.com/google/uuid"
)

// Generator creates run identifiers attached to pipeline logs.
type Generator interface {
	NewID() string
}

type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Static always returns the same id. Useful for deterministic tests.
type Static string

func (s Static) NewID() string {
	return string(s)
}
