package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	c := Config{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "trainbooking"}
	assert.Equal(t, "postgres://u:p@db:5433/trainbooking", c.DSN())
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
	assert.Nil(t, nullIfZero(0))
	assert.Equal(t, int64(7), nullIfZero(7))
}
