package parser

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arteam/couchbase-jvm-core/api"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return raw
}

func TestParseMemcachedFiltersKetamaToDataNodes(t *testing.T) {
	raw := readTestdata(t, "memcached_mixed_sherlock.json")

	cfg, err := Parse(raw, "")
	require.NoError(t, err)

	assert.Equal(t, api.Memcached, cfg.Type)
	assert.Len(t, cfg.Nodes, 4)
	assert.NotEmpty(t, cfg.KetamaNodes)

	dataHosts := map[string]bool{"192.168.56.101": true, "192.168.56.102": true}
	for _, n := range cfg.KetamaNodes {
		assert.Contains(t, dataHosts, n.RawHostname[:len("192.168.56.101")])
		assert.True(t, n.HasService(api.KeyValue))
	}
}

func TestParseKetamaRingSizeIs160PerDataNode(t *testing.T) {
	raw := readTestdata(t, "memcached_mixed_sherlock.json")
	cfg, err := Parse(raw, "")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, n := range cfg.KetamaNodes {
		seen[n.RawHostname] = true
	}
	assert.Len(t, seen, 2, "only the two kv-carrying nodes should ever appear on the ring")
	assert.Len(t, cfg.KetamaNodes, 2*pointsPerNode*4, "each kv-carrying node contributes 160 ring points")
}

func TestParseMissingUUIDIsNotAnError(t *testing.T) {
	raw := []byte(`{"name":"b","rev":1,"nodeLocator":"vbucket","nodes":[{"hostname":"10.0.0.1","services":{"kv":11210}}]}`)
	cfg, err := Parse(raw, "")
	require.NoError(t, err)
	assert.False(t, cfg.UUID.IsSet())
}

func TestParseRoundTripsRev(t *testing.T) {
	raw := []byte(`{"name":"b","rev":99,"nodeLocator":"vbucket","nodes":[{"hostname":"10.0.0.1","services":{"kv":11210}}]}`)
	cfg, err := Parse(raw, "")
	require.NoError(t, err)
	require.True(t, cfg.Rev.IsSet())
	assert.EqualValues(t, 99, cfg.Rev.Value())

	raw = []byte(`{"name":"b","nodeLocator":"vbucket","nodes":[{"hostname":"10.0.0.1","services":{"kv":11210}}]}`)
	cfg, err = Parse(raw, "")
	require.NoError(t, err)
	assert.False(t, cfg.Rev.IsSet())
}

func TestParseMalformedPayloadIsInvalidConfig(t *testing.T) {
	_, err := Parse([]byte(`not json`), "")
	require.Error(t, err)
	assert.True(t, api.IsInvalidConfig(err))
}

func TestParseMissingNameIsInvalidConfig(t *testing.T) {
	raw := []byte(`{"rev":1,"nodeLocator":"vbucket","nodes":[{"hostname":"10.0.0.1","services":{"kv":11210}}]}`)
	_, err := Parse(raw, "")
	require.Error(t, err)
	assert.True(t, api.IsInvalidConfig(err))
}

func TestParseEveryPortIsPositive(t *testing.T) {
	raw := readTestdata(t, "config_with_external.json")
	cfg, err := Parse(raw, "")
	require.NoError(t, err)

	for _, n := range cfg.Nodes {
		for _, port := range n.Services {
			assert.Greater(t, port, 0)
		}
		for _, port := range n.SSLServices {
			assert.Greater(t, port, 0)
		}
		for _, alt := range n.AlternateAddresses {
			for _, port := range alt.Services {
				assert.Greater(t, port, 0)
			}
		}
	}
}

func TestParseSubstitutesOriginForLoopbackPlaceholder(t *testing.T) {
	raw := []byte(`{"name":"b","rev":1,"nodeLocator":"vbucket","nodes":[{"hostname":"$HOST","services":{"kv":11210}}]}`)
	cfg, err := Parse(raw, "10.20.30.40")
	require.NoError(t, err)
	assert.Equal(t, "10.20.30.40", cfg.Nodes[0].Hostname.Address())
}

func TestParseIPv6HostnamePreservedVerbatim(t *testing.T) {
	raw := []byte(`{"name":"b","rev":1,"nodeLocator":"vbucket","nodes":[{"hostname":"[fe80::1]:8091","services":{"kv":11210}}]}`)
	cfg, err := Parse(raw, "")
	require.NoError(t, err)
	assert.Equal(t, "[fe80::1]", cfg.Nodes[0].Hostname.Address())
}

func TestParseUnknownNodeLocatorIsInvalidConfig(t *testing.T) {
	raw := []byte(`{"name":"b","rev":1,"nodeLocator":"bogus","nodes":[{"hostname":"10.0.0.1","services":{"kv":11210}}]}`)
	_, err := Parse(raw, "")
	require.Error(t, err)
	assert.True(t, api.IsInvalidConfig(err))
}
