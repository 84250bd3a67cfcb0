package parser

// rawConfig mirrors the subset of the server's bucket-config JSON that the
// core reads. Field names follow the wire format, not Go convention.
type rawConfig struct {
	Name        string               `json:"name"`
	UUID        string               `json:"uuid"`
	Rev         *int64               `json:"rev"`
	NodeLocator string               `json:"nodeLocator"`
	Nodes       []rawNode            `json:"nodes"`
	// NodesExt carries legacy per-node metadata keyed by position. It is
	// declared here only so the JSON decoder consumes the "nodesExt" key
	// instead of leaving it to fall through unexpectedly; the field is never
	// read and deliberately never contributes nodes to the ketama ring or to
	// BucketConfig.Nodes. Nodes absent from "nodes" must never appear on the
	// ring.
	NodesExt []rawNode `json:"nodesExt"`
}

type rawNode struct {
	Hostname           string                         `json:"hostname"`
	Ports              map[string]int                 `json:"ports"`
	Services           map[string]int                 `json:"services"`
	AlternateAddresses map[string]rawAlternateAddress `json:"alternateAddresses"`
}

type rawAlternateAddress struct {
	Hostname string          `json:"hostname"`
	Ports    map[string]int  `json:"ports"`
	Services map[string]int  `json:"services"`
}

// serviceAliases maps the wire's short service keys to api.ServiceType. Keys
// not present here are ignored rather than rejected: the payload may carry
// services this core doesn't route on.
var serviceAliases = map[string]string{
	"kv":       "kv",
	"mgmt":     "mgmt",
	"capi":     "capi",
	"capiSSL":  "capi",
	"views":    "views",
	"n1ql":     "n1ql",
	"n1qlSSL":  "n1ql",
	"fts":      "fts",
	"ftsSSL":   "fts",
	"cbas":     "cbas",
	"cbasSSL":  "cbas",
	"eventing": "eventing",
	"backup":   "backup",
	"kvSSL":    "kv",
	"mgmtSSL":  "mgmt",
}

// sslKeys are wire keys that belong in SSLServices rather than Services.
var sslKeys = map[string]bool{
	"kvSSL": true, "mgmtSSL": true, "capiSSL": true,
	"n1qlSSL": true, "ftsSSL": true, "cbasSSL": true,
}
