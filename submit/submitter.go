package submit

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/loadnetwork/bundler/bundle"
	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
	"github.com/loadnetwork/bundler/log"
)

// outerTxSigner signs outer transactions (legacy or dynamic-fee) for the
// configured chain.
func outerTxSigner() gethtypes.Signer {
	return gethtypes.LatestSignerForChainID(big.NewInt(bundle.ChainID))
}

// minFeeBumpWei is the minimum absolute fee bump applied alongside the 10%
// proportional bump in AdjustAndRetry, mirroring the teacher's BumpFees floor
// (web3/fees.go's tip+2gwei/feeCap+5gwei terms) so a near-zero fee still
// escapes "underpriced" after one retry.
const minFeeBumpWei = 100_000_000

// state is the broadcast state machine's current phase (§4.4).
type state int

const (
	statePrepare state = iota
	stateSend
	stateAdjustAndRetry
	stateDone
	stateFail
)

// Transport is the narrow RPC surface the submitter depends on.
type Transport interface {
	NonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendRawTransaction(ctx context.Context, tx *gethtypes.Transaction) error
}

// Submit drives the {Prepare, Send, AdjustAndRetry, Done, Fail} state machine
// from §4.4: it wraps calldata as the input of an outer transaction addressed
// to version, broadcasts it, and escalates nonce/fees on "underpriced"
// rejections until BlockGasLimit is reached.
func Submit(ctx context.Context, transport Transport, signer *ethsigner.Signer, version bundle.Version, calldata []byte) (*gethtypes.Transaction, error) {
	to := version.Address()

	maxPriority := big.NewInt(bundle.InitialMaxPriorityFee)
	maxFee := big.NewInt(bundle.InitialMaxFee)

	nonce, err := transport.NonceAt(ctx, signer.Address())
	if err != nil {
		return nil, fmt.Errorf("submit: prepare: %w", err)
	}

	st := statePrepare
	for {
		switch st {
		case statePrepare:
			st = stateSend

		case stateSend:
			tx := gethtypes.NewTx(&gethtypes.DynamicFeeTx{
				ChainID:   big.NewInt(bundle.ChainID),
				Nonce:     nonce,
				GasTipCap: maxPriority,
				GasFeeCap: maxFee,
				Gas:       bundle.OuterGasLimit,
				To:        &to,
				Value:     big.NewInt(0),
				Data:      calldata,
			})
			signedTx, err := gethtypes.SignTx(tx, outerTxSigner(), signer.PrivateKey())
			if err != nil {
				return nil, fmt.Errorf("submit: signing outer tx: %w", err)
			}

			sendErr := transport.SendRawTransaction(ctx, signedTx)
			if sendErr == nil {
				return signedTx, nil
			}
			if isUnderpriced(sendErr) {
				log.Warnw("outer tx underpriced, escalating nonce and fees", "nonce", nonce)
				st = stateAdjustAndRetry
				continue
			}
			return nil, fmt.Errorf("submit: send: %w", sendErr)

		case stateAdjustAndRetry:
			nonce++
			if maxPriority.Cmp(big.NewInt(bundle.BlockGasLimit)) < 0 && maxFee.Cmp(big.NewInt(bundle.BlockGasLimit)) < 0 {
				// bumped' = max(bumped * 1.1, bumped + minFeeBumpWei), so rounding
				// never leaves a tiny fee stuck below the underpriced threshold.
				maxPriority = maxBig(mulFrac(maxPriority, 11, 10), new(big.Int).Add(maxPriority, big.NewInt(minFeeBumpWei)))
				maxFee = maxBig(mulFrac(maxFee, 11, 10), new(big.Int).Add(maxFee, big.NewInt(minFeeBumpWei)))
			}
			st = stateSend

		case stateDone, stateFail:
			return nil, fmt.Errorf("submit: unreachable state %d", st)
		}
	}
}

// CreateBundleSync wraps Submit with up to 3 attempts and a 100ms backoff for
// non-underpriced errors (§4.4's higher-level variant).
func CreateBundleSync(ctx context.Context, transport Transport, signer *ethsigner.Signer, version bundle.Version, calldata []byte) (*gethtypes.Transaction, error) {
	const maxAttempts = 3
	const backoff = 100 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tx, err := Submit(ctx, transport, signer, version, calldata)
		if err == nil {
			return tx, nil
		}
		lastErr = err
		if attempt < maxAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrBundleNotCreated, lastErr)
}
