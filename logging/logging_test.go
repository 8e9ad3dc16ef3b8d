package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewConfigDefaultsToProduction(t *testing.T) {
	config := NewConfig()

	assert.Equal(t, "json", config.Encoding)
	assert.Equal(t, zap.InfoLevel, config.Level.Level())
}

func TestNewConfigRespectsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	config := NewConfig()

	assert.Equal(t, zap.WarnLevel, config.Level.Level())
}

func TestNewConfigIgnoresUnparseableLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "garbage")

	config := NewConfig()

	assert.Equal(t, zap.InfoLevel, config.Level.Level())
}

func TestNewConfigDevelopmentFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "development")

	config := NewConfig()

	assert.Equal(t, "console", config.Encoding)
	assert.Equal(t, zap.DebugLevel, config.Level.Level())
}

func TestAddFieldsDoesNotMutateParentContext(t *testing.T) {
	ctx := context.Background()
	one := AddFields(ctx, zap.String("a", "1"))
	two := AddFields(one, zap.String("b", "2"))
	sibling := AddFields(one, zap.String("c", "3"))

	assert.Empty(t, GetFields(ctx))
	assert.Len(t, GetFields(one), 1)
	assert.Len(t, GetFields(two), 2)
	assert.Len(t, GetFields(sibling), 2)
	assert.Equal(t, "c", GetFields(sibling)[1].Key)
}
