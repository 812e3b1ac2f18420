package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/retailpos/internal/model"
)

func TestMongoConfig_ConnectionURI(t *testing.T) {
	tests := []struct {
		name string
		cfg  MongoConfig
		want string
	}{
		{"explicit uri wins", MongoConfig{URI: "mongodb+srv://cluster", Host: "ignored"}, "mongodb+srv://cluster"},
		{"host and port", MongoConfig{Host: "db", Port: "27017"}, "mongodb://db:27017"},
		{"escaped credentials", MongoConfig{Host: "db", Port: "27017", User: "pos", Password: "p@ss/word"}, "mongodb://pos:p%40ss%2Fword@db:27017"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ConnectionURI())
		})
	}
}

func TestObjectID(t *testing.T) {
	oid, err := objectID("65a1b2c3d4e5f60718293a4b")
	require.NoError(t, err)
	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", oid.Hex())

	_, err = objectID("nope")
	assert.ErrorIs(t, err, model.ErrInvalid)
}
