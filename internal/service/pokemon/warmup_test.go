package pokemon

import (
	"context"
	"testing"

	"github.com/kapu/pokedex-translator-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmUp(t *testing.T) {
	species := testSpecies()
	svc := newTestService(species, &fakeTranslator{})

	report := svc.WarmUp(context.Background(), []string{"charizard", "mewtwo", "missingno", "charizard"}, 2)

	assert.Equal(t, 3, report.Resolved)
	require.Len(t, report.Failed, 1)
	assert.True(t, errors.IsNotFound(report.Failed["missingno"]))

	// Warmed entries are served from cache.
	before := species.calls.Load()
	_, err := svc.Resolve(context.Background(), "mewtwo")
	require.NoError(t, err)
	assert.Equal(t, before, species.calls.Load())
}

func TestWarmUpEmpty(t *testing.T) {
	svc := newTestService(testSpecies(), &fakeTranslator{})
	report := svc.WarmUp(context.Background(), nil, 0)
	assert.Zero(t, report.Resolved)
	assert.Empty(t, report.Failed)
}
