package ports_test

import (
	"testing"

	mocks "github.com/Killzin1000/quality-estetica2/internal/mocks/auth"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*mocks.MockAuthProvider)(nil)
	var _ ports.CredentialAuthenticator = (*mocks.MemoryCredentials)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.RoleMapper = mocks.StaticRoleMapper{}
	var _ ports.SessionEventBus = (*mocks.MemoryEventBus)(nil)
	var _ ports.ProfileCache = (*mocks.MemoryProfileCache)(nil)
}
