package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderID(t *testing.T) {
	t.Run("user reader", func(t *testing.T) {
		id := uuid.New()
		reader := UserReader(id)

		assert.False(t, reader.IsZero())
		assert.Equal(t, ReaderKindUser, reader.Kind())

		userID, ok := reader.UserID()
		require.True(t, ok)
		assert.Equal(t, id, userID)

		_, ok = reader.ClientID()
		assert.False(t, ok)
		assert.Equal(t, "user:"+id.String(), reader.String())
	})

	t.Run("client reader", func(t *testing.T) {
		reader := ClientReader("abc-123")

		assert.False(t, reader.IsZero())
		clientID, ok := reader.ClientID()
		require.True(t, ok)
		assert.Equal(t, "abc-123", clientID)

		_, ok = reader.UserID()
		assert.False(t, ok)
		assert.Equal(t, "client:abc-123", reader.String())
	})

	t.Run("zero value", func(t *testing.T) {
		var reader ReaderID
		assert.True(t, reader.IsZero())
		assert.Empty(t, reader.String())
	})
}

func TestPostReadReaderRoundTrip(t *testing.T) {
	userReader := UserReader(uuid.New())
	read := NewPostRead("some-post", userReader)
	require.NotNil(t, read.UserID)
	assert.Nil(t, read.ClientID)
	assert.Equal(t, userReader, read.Reader())

	clientReader := ClientReader("cookie-id")
	read = NewPostRead("some-post", clientReader)
	require.NotNil(t, read.ClientID)
	assert.Nil(t, read.UserID)
	assert.Equal(t, clientReader, read.Reader())
}
