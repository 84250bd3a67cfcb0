package api

// ClusterConfig is an immutable snapshot mapping bucket name to its current
// BucketConfig. A new instance is produced on every accepted change; readers
// never see a torn map.
type ClusterConfig struct {
	buckets map[string]BucketConfig
}

// NewClusterConfig builds a snapshot from the given buckets. The caller's
// map is copied so later mutation of it cannot reach into the snapshot.
func NewClusterConfig(buckets map[string]BucketConfig) ClusterConfig {
	cp := make(map[string]BucketConfig, len(buckets))
	for k, v := range buckets {
		cp[k] = v
	}
	return ClusterConfig{buckets: cp}
}

// WithBucket returns a new ClusterConfig with name's entry replaced (or
// added). The receiver is left untouched.
func (c ClusterConfig) WithBucket(name string, cfg BucketConfig) ClusterConfig {
	cp := make(map[string]BucketConfig, len(c.buckets)+1)
	for k, v := range c.buckets {
		cp[k] = v
	}
	cp[name] = cfg
	return ClusterConfig{buckets: cp}
}

// HasBucket reports whether name has an entry in this snapshot.
func (c ClusterConfig) HasBucket(name string) bool {
	_, ok := c.buckets[name]
	return ok
}

// BucketConfig returns name's entry and whether it was present.
func (c ClusterConfig) BucketConfig(name string) (BucketConfig, bool) {
	cfg, ok := c.buckets[name]
	return cfg, ok
}

// BucketConfigs returns every entry in this snapshot. The returned slice is
// owned by the caller.
func (c ClusterConfig) BucketConfigs() []BucketConfig {
	out := make([]BucketConfig, 0, len(c.buckets))
	for _, v := range c.buckets {
		out = append(out, v)
	}
	return out
}
