package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, 1234.57, Round2(1234.567))
	assert.Equal(t, -2.5, Round2(-2.499))
	assert.Equal(t, 0.0, Round2(0))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 25, ParseIntDefault("25", 50))
	assert.Equal(t, 25, ParseIntDefault(" 25 ", 50))
	assert.Equal(t, 50, ParseIntDefault("", 50))
	assert.Equal(t, 50, ParseIntDefault("abc", 50))
	assert.Equal(t, 50, ParseIntDefault("-1", 50))
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	type dto struct {
		Name   *string  `json:"name"`
		Amount *float64 `json:"amount"`
		Active *bool    `json:"is_active"`
		Hidden *string  `json:"-"`
	}
	name := "Tuition"
	active := true
	hidden := "x"

	updates := UpdatesFromPtrDTO(&dto{Name: &name, Active: &active, Hidden: &hidden}, map[string]string{"is_active": "active"})

	assert.Equal(t, map[string]any{"name": "Tuition", "active": true}, updates)
}

func TestNormalizePtrDTO(t *testing.T) {
	type dto struct {
		Name   *string  `json:"name"`
		Amount *float64 `json:"amount"`
	}
	name := "  Tuition  "
	amount := 1200.456
	d := dto{Name: &name, Amount: &amount}

	NormalizePtrDTO(&d)

	assert.Equal(t, "Tuition", *d.Name)
	assert.Equal(t, 1200.46, *d.Amount)
}
