package utils

import "github.com/google/uuid"

// UUIDGenerator produces the identifiers embedded in blob object keys and
// password-reset tokens. A struct rather than a bare function so services
// can swap it for a deterministic generator in tests.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a version 7 UUID. V7 is time-ordered, which keeps blob
// keys for the same client roughly chronological in object listings. Falls
// back to a random v4 if the monotonic source fails.
func (g *UUIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
