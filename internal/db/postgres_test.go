package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectDBRejectsEmptyURL(t *testing.T) {
	pool, err := ConnectDB("")

	assert.Nil(t, pool)
	assert.Error(t, err)
}

func TestConnectDBRejectsMalformedURL(t *testing.T) {
	pool, err := ConnectDB("postgres://localhost:not-a-port/orderbot")

	assert.Nil(t, pool)
	assert.ErrorContains(t, err, "parse database url")
}
