package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	t.Run("resolves the default provider for empty name", func(t *testing.T) {
		r := NewRouter("mock")
		r.RegisterProvider(newMockProvider())

		p, err := r.GetProvider("")
		require.NoError(t, err)
		assert.Equal(t, "mock", p.Name())
	})

	t.Run("unknown provider", func(t *testing.T) {
		r := NewRouter("mock")
		_, err := r.GetProvider("azure")
		assert.ErrorContains(t, err, "provider not found")
	})

	t.Run("unconfigured provider is not served", func(t *testing.T) {
		r := NewRouter("mock")
		p := newMockProvider()
		p.configured = false
		r.RegisterProvider(p)

		_, err := r.GetProvider("mock")
		assert.ErrorContains(t, err, "provider not configured")
		assert.Empty(t, r.ListProviders())
	})

	t.Run("lists only configured providers", func(t *testing.T) {
		r := NewRouter("mock")
		r.RegisterProvider(newMockProvider())
		assert.Equal(t, []string{"mock"}, r.ListProviders())
		assert.Equal(t, "mock", r.DefaultProvider())
	})
}
