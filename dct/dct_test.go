package dct

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripConstantBlock(t *testing.T) {
	var block Block
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			block[i][j] = 50
		}
	}

	transformed := Forward8x8(block)
	require.InDelta(t, 400.0, transformed[0][0], 1e-9)
	require.InDelta(t, 0.0, transformed[2][2], 1e-9)

	back := Inverse8x8(transformed)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			require.InDelta(t, block[i][j], back[i][j], 1e-9)
		}
	}
}

func TestRoundTripRandomBlock(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	var block Block
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			block[i][j] = r.Float64() * 255
		}
	}

	transformed := Forward8x8(block)
	back := Inverse8x8(transformed)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			require.InDelta(t, block[i][j], back[i][j], 1e-9)
		}
	}
}

func TestPerturbedCoefficientSignSurvivesRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var block Block
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			block[i][j] = r.Float64() * 255
		}
	}

	transformed := Forward8x8(block)
	transformed[2][2] += 16
	spatial := Inverse8x8(transformed)
	reTransformed := Forward8x8(spatial)

	require.GreaterOrEqual(t, reTransformed[2][2], 0.0)
}
