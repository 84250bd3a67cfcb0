package parser

import (
	"crypto/md5" //nolint:gosec // ketama's hash ring is defined over MD5; this is not a security boundary
	"fmt"

	"github.com/arteam/couchbase-jvm-core/api"
)

// pointsPerNode is the standard ketama replica count: 40 iterations, 4 ring
// points extracted from each MD5 digest, for 160 points per node.
const pointsPerNode = 40

// buildKetamaRing inserts 160 ring points per node that carries the binary
// key-value service. Nodes without that service are excluded from the ring
// but remain in the caller's node list.
func buildKetamaRing(nodes []api.NodeInfo) map[uint64]api.NodeInfo {
	ring := make(map[uint64]api.NodeInfo)
	for _, n := range nodes {
		if !n.HasService(api.KeyValue) {
			continue
		}
		for i := 0; i < pointsPerNode; i++ {
			digest := md5.Sum([]byte(fmt.Sprintf("%s-%d", n.RawHostname, i))) //nolint:gosec
			for p := 0; p < 4; p++ {
				point := ketamaPoint(digest, p)
				ring[point] = n
			}
		}
	}
	return ring
}

// ketamaPoint extracts the p'th (0..3) little-endian 32-bit word from a
// 16-byte MD5 digest, matching the classic libketama point derivation.
func ketamaPoint(digest [16]byte, p int) uint64 {
	i := p * 4
	return uint64(digest[i]) |
		uint64(digest[i+1])<<8 |
		uint64(digest[i+2])<<16 |
		uint64(digest[i+3])<<24
}
