package api

// ProposedBucketConfigContext is the input to the acceptance engine: a raw
// payload for one bucket, attributed to the address it came from.
type ProposedBucketConfigContext struct {
	BucketName string
	Raw        []byte
	Origin     string
}
