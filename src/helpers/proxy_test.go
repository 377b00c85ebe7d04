package helpers

import (
	"testing"

	"seasonality-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyManagerDefaults(t *testing.T) {
	pm, err := NewProxyManager(models.MBackendConfig{})
	require.NoError(t, err)
	assert.False(t, pm.HasProxies())
	assert.Equal(t, DefaultUserAgent, pm.GetUserAgent())
}

func TestProxyManagerFormatsProxy(t *testing.T) {
	pm, err := NewProxyManager(models.MBackendConfig{Proxy: "10.0.0.1:3128", UserAgent: "probe/2"})
	require.NoError(t, err)

	proxy, err := pm.GetCurrentProxy()
	require.NoError(t, err)
	assert.True(t, pm.HasProxies())
	assert.Equal(t, "http://10.0.0.1:3128", proxy)
	assert.Equal(t, "probe/2", pm.GetUserAgent())
}

func TestProxyManagerRejectsBadScheme(t *testing.T) {
	_, err := NewProxyManager(models.MBackendConfig{Proxy: "ftp://10.0.0.1:21"})
	assert.Error(t, err)
}
