package weebly

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialLifecycle(t *testing.T) {
	userID := uuid.New()
	siteID := uuid.New()

	t.Run("creates valid credential", func(t *testing.T) {
		credential, err := NewCredential(userID, siteID, "token-1", "1.0")
		require.NoError(t, err)
		assert.True(t, credential.IsValid)
		assert.Equal(t, "1.0", credential.Version)
	})

	t.Run("fails with empty token", func(t *testing.T) {
		_, err := NewCredential(userID, siteID, "", "1.0")
		require.Error(t, err)
	})

	t.Run("replace token updates version and restores validity", func(t *testing.T) {
		credential, err := NewCredential(userID, siteID, "token-1", "1.0")
		require.NoError(t, err)
		credential.Invalidate()
		require.False(t, credential.IsValid)

		require.NoError(t, credential.ReplaceToken("token-2", "1.1"))
		assert.True(t, credential.IsValid)
		assert.Equal(t, "1.1", credential.Version)
		assert.Equal(t, "token-2", credential.Token)
	})

	t.Run("invalidate publishes an event once", func(t *testing.T) {
		credential, err := NewCredential(userID, siteID, "token-1", "1.0")
		require.NoError(t, err)

		credential.Invalidate()
		credential.Invalidate()

		events := credential.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCredentialInvalidated, events[0].EventType())
	})
}

func TestDefaultCredentialForSite(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	site := &Site{OwnerID: owner}

	newCred := func(userID uuid.UUID) Credential {
		c, err := NewCredential(userID, uuid.New(), "tok", "1.0")
		require.NoError(t, err)
		return *c
	}

	t.Run("prefers the owner's credential", func(t *testing.T) {
		credentials := []Credential{newCred(other), newCred(owner)}
		picked := DefaultCredentialForSite(site, credentials)
		require.NotNil(t, picked)
		assert.Equal(t, owner, picked.UserID)
	})

	t.Run("falls back to the most recent credential", func(t *testing.T) {
		credentials := []Credential{newCred(other), newCred(uuid.New())}
		picked := DefaultCredentialForSite(site, credentials)
		require.NotNil(t, picked)
		assert.Equal(t, credentials[0].ID, picked.ID)
	})

	t.Run("returns nil without credentials", func(t *testing.T) {
		assert.Nil(t, DefaultCredentialForSite(site, nil))
	})
}
