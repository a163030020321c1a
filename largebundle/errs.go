package largebundle

import (
	"errors"
	"fmt"
)

// Input errors (§7 "Input errors" / "Resource errors").
var (
	ErrPayloadEmpty       = errors.New("largebundle: payload data is required")
	ErrPayloadTooLarge    = errors.New("largebundle: payload exceeds LB_SAFE_MAX_SIZE_LIMIT")
	ErrTooManyChunks      = errors.New("largebundle: chunk count exceeds MAX_SAFE_CHUNKS_IN_LB")
	ErrSuperAccountNeeded = errors.New("largebundle: a loaded SuperAccount is required for parallel chunk propagation")
	ErrChunkersNeeded     = errors.New("largebundle: SuperAccount has no loaded chunkers")
)

// Protocol errors.
var (
	ErrManifestEmpty             = errors.New("largebundle: manifest bundle contains no envelopes")
	ErrChunkEnvelopeCount        = errors.New("largebundle: chunk bundle must contain exactly one envelope")
	ErrLargeBundleChunksRetrieval = errors.New("largebundle: failed to retrieve chunk receipts")
	ErrLargeBundleReconstruction  = errors.New("largebundle: failed to reconstruct payload")
)

// MissingReceiptError reports that a chunk dispatch slot was never filled
// after a super-propagate round, per §4.6 step 4.
type MissingReceiptError struct {
	Index int
}

func (e *MissingReceiptError) Error() string {
	return fmt.Sprintf("largebundle: missing chunk receipt at index %d", e.Index)
}
