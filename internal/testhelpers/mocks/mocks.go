package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextGenerator is a testify mock of the generation service boundary
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// StaticGenerator always answers with the same reply and records prompts
type StaticGenerator struct {
	Reply   string
	Err     error
	Prompts []string
}

func (g *StaticGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	return g.Reply, g.Err
}
