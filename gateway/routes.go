package gateway

// Route constants for the gateway's read-only HTTP surface (C5/C6's external
// interface). v1 routes resolve against BABE1 (standard bundles); v2 routes
// resolve against BABE2 (large-bundle chunks and manifests).
const (
	PingEndpoint = "/ping"

	HashURLParam = "hash"

	V1EnvelopesEndpoint     = "/v1/envelopes/{" + HashURLParam + "}"
	V1EnvelopeIDsEndpoint   = "/v1/envelopes/ids/{" + HashURLParam + "}"
	V1EnvelopesFullEndpoint = "/v1/envelopes-full/{" + HashURLParam + "}"

	V2EnvelopesEndpoint     = "/v2/envelopes/{" + HashURLParam + "}"
	V2EnvelopeIDsEndpoint   = "/v2/envelopes/ids/{" + HashURLParam + "}"
	V2EnvelopesFullEndpoint = "/v2/envelopes-full/{" + HashURLParam + "}"

	ManifestHashURLParam  = "manifestHash"
	V2ResolveEndpoint     = "/v2/resolve/{" + ManifestHashURLParam + "}"
	V2ReconstructEndpoint = "/v2/reconstruct/{" + ManifestHashURLParam + "}"
)
