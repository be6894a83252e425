package trackkit

import (
	"context"

	"github.com/google/uuid"
)

// AnonymousID returns the persisted anonymous id, generating and
// persisting a new one when none is stored. With persistence disabled a
// new id is returned on every call.
func (s *Session) AnonymousID(ctx context.Context) string {
	if id := s.store.GetString(ctx, KeyAnonymousID); id != "" {
		return id
	}
	return s.RegenerateAnonymousID(ctx)
}

// RegenerateAnonymousID replaces the persisted anonymous id with a new
// random UUID.
func (s *Session) RegenerateAnonymousID(ctx context.Context) string {
	id := uuid.NewString()
	s.store.Set(ctx, KeyAnonymousID, id)
	return id
}

// ClearIdentity removes the persisted uuid, signature and anonymous id and
// forgets the client id. The fingerprint is kept. The next heartbeat
// starts over as a new client.
func (s *Session) ClearIdentity(ctx context.Context) {
	for _, key := range []string{KeyUUID, KeySignature, KeyAnonymousID} {
		s.store.Clear(ctx, key)
	}

	s.mu.Lock()
	s.identity.ClientID = ""
	s.identity.Signature = ""
	s.identity.UUID = ""
	s.mu.Unlock()
}
