package clusterconfig

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arteam/couchbase-jvm-core/api"
	"github.com/arteam/couchbase-jvm-core/config"
)

func newTestProvider() *Provider {
	env := config.Environment{NetworkResolution: config.Default, Logger: logr.Discard()}
	return New(env, nil, nil, nil)
}

func rawConfigJSON(bucket string, rev int) []byte {
	return []byte(fmt.Sprintf(`{"name":%q,"rev":%d,"nodeLocator":"vbucket","nodes":[{"hostname":"10.0.0.1","services":{"kv":11210}}]}`, bucket, rev))
}

func TestProposeBucketConfigMonotonicity(t *testing.T) {
	p := newTestProvider()

	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: rawConfigJSON("b", 2)})
	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: rawConfigJSON("b", 1)})

	cfg, ok := p.Config().BucketConfig("b")
	require.True(t, ok)
	assert.EqualValues(t, 2, cfg.Rev.Value())
}

func TestProposeBucketConfigIgnoresEqualRev(t *testing.T) {
	p := newTestProvider()
	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: rawConfigJSON("b", 2)})

	sub := p.Configs(context.Background())
	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: rawConfigJSON("b", 2)})

	select {
	case <-sub:
		t.Fatal("equal-rev proposal must not emit")
	default:
	}
}

func TestProposeBucketConfigInvalidThenValidThenInvalidThenNewer(t *testing.T) {
	p := newTestProvider()

	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: []byte(`not json`)})
	_, ok := p.Config().BucketConfig("b")
	assert.False(t, ok)

	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: rawConfigJSON("b", 1)})
	cfg, ok := p.Config().BucketConfig("b")
	require.True(t, ok)
	assert.EqualValues(t, 1, cfg.Rev.Value())

	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: []byte(`not json`)})
	cfg, ok = p.Config().BucketConfig("b")
	require.True(t, ok)
	assert.EqualValues(t, 1, cfg.Rev.Value())

	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: rawConfigJSON("b", 2)})
	cfg, ok = p.Config().BucketConfig("b")
	require.True(t, ok)
	assert.EqualValues(t, 2, cfg.Rev.Value())
}

func TestProposeBucketConfigMissingRevIsIgnored(t *testing.T) {
	p := newTestProvider()
	raw := []byte(`{"name":"b","nodeLocator":"vbucket","nodes":[{"hostname":"10.0.0.1","services":{"kv":11210}}]}`)
	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: raw})
	_, ok := p.Config().BucketConfig("b")
	assert.False(t, ok)
}

func TestProposeBucketConfigIdempotentAtMostOneEmission(t *testing.T) {
	p := newTestProvider()
	sub := p.Configs(context.Background())

	raw := rawConfigJSON("b", 5)
	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: raw})
	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: raw})

	count := 0
drain:
	for {
		select {
		case <-sub:
			count++
		default:
			break drain
		}
	}
	assert.Equal(t, 1, count)
}

func TestConfigsDoesNotReplayPriorSnapshots(t *testing.T) {
	p := newTestProvider()
	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: rawConfigJSON("b", 1)})

	sub := p.Configs(context.Background())
	select {
	case <-sub:
		t.Fatal("new subscriber must not receive replay")
	default:
	}

	p.ProposeBucketConfig(context.Background(), api.ProposedBucketConfigContext{BucketName: "b", Raw: rawConfigJSON("b", 2)})
	select {
	case cfg := <-sub:
		bc, ok := cfg.BucketConfig("b")
		require.True(t, ok)
		assert.EqualValues(t, 2, bc.Rev.Value())
	default:
		t.Fatal("expected the next accepted change to be delivered")
	}
}
