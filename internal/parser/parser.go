// Package parser turns a raw bucket-config JSON payload into an
// api.BucketConfig. It is the only place in the core that understands the
// wire format.
package parser

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/arteam/couchbase-jvm-core/api"
)

const loopbackPlaceholder = "$HOST"

// Parse dispatches on the payload's nodeLocator field and produces the
// matching BucketConfig variant. origin substitutes for "$HOST"/"127.0.0.1"
// in node hostnames, the server's way of saying "this host".
//
// A missing rev is not an error here: ParserFacade only rejects malformed
// payloads (api.InvalidConfigError), and a rev that is not an integer makes
// the payload malformed. The acceptance engine is what refuses configs
// without a rev (spec: "parsed for bootstrap but
// rejected by the acceptance engine").
func Parse(raw []byte, origin string) (api.BucketConfig, error) {
	var rc rawConfig
	if err := json.Unmarshal(raw, &rc); err != nil {
		return api.BucketConfig{}, errors.Wrap(api.NewInvalidConfigError("malformed payload: %v", err), "parse bucket config")
	}
	if rc.Name == "" {
		return api.BucketConfig{}, api.NewInvalidConfigError("missing required field \"name\"")
	}
	if len(rc.Nodes) == 0 {
		return api.BucketConfig{}, api.NewInvalidConfigError("bucket %q has no nodes", rc.Name)
	}

	nodes := make([]api.NodeInfo, 0, len(rc.Nodes))
	for _, rn := range rc.Nodes {
		nodes = append(nodes, convertNode(rn, origin))
	}

	cfg := api.BucketConfig{
		Name:  rc.Name,
		UUID:  api.NewUUID(rc.UUID),
		Nodes: nodes,
	}
	if rc.Rev != nil {
		cfg.Rev = api.NewRev(*rc.Rev)
	}

	switch rc.NodeLocator {
	case "ketama":
		cfg.Type = api.Memcached
		cfg.KetamaNodes = buildKetamaRing(nodes)
	case "vbucket", "":
		cfg.Type = api.Couchbase
	default:
		return api.BucketConfig{}, api.NewInvalidConfigError("unknown nodeLocator %q", rc.NodeLocator)
	}

	if err := cfg.Validate(); err != nil {
		return api.BucketConfig{}, errors.Wrap(err, "parse bucket config")
	}
	return cfg, nil
}

func substituteOrigin(hostname, origin string) string {
	if origin == "" {
		return hostname
	}
	switch hostname {
	case loopbackPlaceholder, "127.0.0.1", "":
		return origin
	default:
		return hostname
	}
}

// stripPort removes a trailing ":<port>" from a hostname. A bracketed IPv6
// literal keeps its brackets and loses only what follows them; an
// unbracketed string is stripped only when it has exactly one colon, so bare
// IPv6 literals are preserved.
func stripPort(hostname string) string {
	if strings.HasPrefix(hostname, "[") {
		if idx := strings.Index(hostname, "]"); idx >= 0 {
			return hostname[:idx+1]
		}
		return hostname
	}
	if idx := strings.LastIndex(hostname, ":"); idx >= 0 && strings.Count(hostname, ":") == 1 {
		return hostname[:idx]
	}
	return hostname
}

func convertNode(rn rawNode, origin string) api.NodeInfo {
	name := substituteOrigin(stripPort(rn.Hostname), origin)

	services, sslServices := splitServiceMaps(rn.Ports, rn.Services)

	alternates := make(map[string]api.AlternateAddress, len(rn.AlternateAddresses))
	for network, ra := range rn.AlternateAddresses {
		altServices, altSSLServices := splitServiceMaps(ra.Ports, ra.Services)
		alternates[network] = api.AlternateAddress{
			Hostname:    api.HostAndPort{Name: ra.Hostname},
			RawHostname: ra.Hostname,
			Services:    altServices,
			SSLServices: altSSLServices,
		}
	}

	return api.NodeInfo{
		Hostname:           api.HostAndPort{Name: name},
		RawHostname:        rn.Hostname,
		Services:           services,
		SSLServices:        sslServices,
		AlternateAddresses: alternates,
	}
}

// splitServiceMaps merges the legacy "ports" map and the current combined
// "services" map into plaintext/SSL buckets keyed by api.ServiceType.
func splitServiceMaps(ports, servicesMap map[string]int) (map[api.ServiceType]int, map[api.ServiceType]int) {
	services := make(map[api.ServiceType]int)
	sslServices := make(map[api.ServiceType]int)

	assign := func(raw map[string]int) {
		for key, port := range raw {
			if port <= 0 {
				continue
			}
			canonical, ok := serviceAliases[key]
			if !ok {
				continue
			}
			if sslKeys[key] {
				sslServices[api.ServiceType(canonical)] = port
			} else {
				services[api.ServiceType(canonical)] = port
			}
		}
	}
	assign(ports)
	assign(servicesMap)
	return services, sslServices
}
