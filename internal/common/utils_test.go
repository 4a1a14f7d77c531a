package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("Patchy Rain nearby", "rain"))
	assert.True(t, HasAny("overcast", "fog", "OVER"))
	assert.False(t, HasAny("clear", "cloud", ""))
	assert.False(t, HasAny("clear"))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "seoul", NormalizeKey("  SeOul "))
	assert.Equal(t, "서울", NormalizeKey("서울"))
	assert.Equal(t, "", NormalizeKey("   "))
}
