package api

// BucketType discriminates the BucketConfig variants. Consumers branch on
// Type rather than type-asserting or using a deep interface hierarchy.
type BucketType string

const (
	Couchbase BucketType = "couchbase"
	Memcached BucketType = "memcached"
	Ephemeral BucketType = "ephemeral"
)

// UUID is a bucket's opaque identity. The zero value means "no identity
// assigned yet" — a config missing the uuid field parses successfully.
type UUID struct {
	value string
	set   bool
}

// NoUUID is the "no identity assigned yet" value.
var NoUUID = UUID{}

// NewUUID wraps a non-empty identity string.
func NewUUID(v string) UUID {
	if v == "" {
		return NoUUID
	}
	return UUID{value: v, set: true}
}

func (u UUID) IsSet() bool    { return u.set }
func (u UUID) String() string { return u.value }

// NetworkName identifies which address set a client should use. The zero
// value means "use the default addresses".
type NetworkName string

const DefaultNetwork NetworkName = ""

// BucketConfig is the common, immutable view of one bucket's topology at a
// given revision. The concrete variant (Couchbase/Memcached/Ephemeral)
// carries additional, type-specific data.
type BucketConfig struct {
	Type BucketType

	Name string
	UUID UUID
	Rev  Rev

	// Nodes preserves the server-provided order.
	Nodes []NodeInfo

	// UseAlternateNetwork is assigned by the NetworkResolver, never by the
	// parser: a freshly parsed config always has DefaultNetwork here.
	UseAlternateNetwork NetworkName

	// KetamaNodes is populated only for Type == Memcached. Every value is a
	// node from Nodes that carries the binary key-value service.
	KetamaNodes map[uint64]NodeInfo

	// Opaque carries the partition/replica map bytes for Couchbase/Ephemeral
	// variants. The core never inspects this; it is read by higher layers
	// that do vBucket routing.
	Opaque []byte
}

// Rev is a bucket configuration's server-assigned revision. The zero value
// distinguishes "absent" from "zero": use NoRev to test for it.
type Rev struct {
	value int64
	set   bool
}

var NoRev = Rev{}

func NewRev(v int64) Rev { return Rev{value: v, set: true} }

func (r Rev) IsSet() bool  { return r.set }
func (r Rev) Value() int64 { return r.value }

// Newer reports whether r is strictly greater than other, treating an unset
// revision as older than any set one. Two unset revisions are not "newer"
// of each other.
func (r Rev) Newer(other Rev) bool {
	if !r.set {
		return false
	}
	if !other.set {
		return true
	}
	return r.value > other.value
}

// Validate checks the invariants common to every BucketConfig variant:
// non-empty name, at least one node, and (for Memcached) a ketama ring
// drawn only from data-capable nodes.
func (c BucketConfig) Validate() error {
	if c.Name == "" {
		return errInvalidConfig("bucket name is empty")
	}
	if len(c.Nodes) == 0 {
		return errInvalidConfig("bucket %q has no nodes", c.Name)
	}
	for _, n := range c.Nodes {
		if err := n.Validate(); err != nil {
			return errInvalidConfig("bucket %q: %v", c.Name, err)
		}
	}
	if c.Type == Memcached {
		dataNodes := make(map[string]bool, len(c.Nodes))
		for _, n := range c.Nodes {
			if n.HasService(KeyValue) {
				dataNodes[n.RawHostname] = true
			}
		}
		for _, n := range c.KetamaNodes {
			if !dataNodes[n.RawHostname] {
				return errInvalidConfig("bucket %q: ketama ring references node %q without the kv service", c.Name, n.RawHostname)
			}
		}
	}
	return nil
}
