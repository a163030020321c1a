// Package submit implements the outer-transaction broadcast state machine
// (C4) and the parallel envelope-signing fan-out (C7 usage #1).
package submit

import (
	"golang.org/x/sync/errgroup"

	"github.com/loadnetwork/bundler/bundle"
	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
)

// SignEnvelopes signs every envelope in parallel, one task per envelope, and
// returns the signed results in the caller-supplied order. Per the decision
// recorded in DESIGN.md (§9's silent-drop question, option (a)), any single
// signing failure fails the whole bundle: no partial result is ever returned.
func SignEnvelopes(signer *ethsigner.Signer, envelopes []*bundle.Envelope) ([]bundle.SignedEnvelope, error) {
	signed := make([]bundle.SignedEnvelope, len(envelopes))

	var g errgroup.Group
	for i, env := range envelopes {
		i, env := i, env
		g.Go(func() error {
			s, err := bundle.SignEnvelope(signer, env)
			if err != nil {
				return &bundle.SigningFailedError{Index: i, Err: err}
			}
			signed[i] = *s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return signed, nil
}
