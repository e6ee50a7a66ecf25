package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// SequenceGenerator hands out deterministic ids, used by tests and seeds.
type SequenceGenerator struct {
	Prefix string
	next   int
}

func (g *SequenceGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s%d", g.Prefix, g.next), nil
}
