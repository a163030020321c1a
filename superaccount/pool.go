package superaccount

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/loadnetwork/bundler/bundle"
	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
	"github.com/loadnetwork/bundler/log"
	"github.com/loadnetwork/bundler/submit"
)

// SafeChunkTopup is the fixed funding amount sent to every chunker by Fund
// (§6: SAFE_CHUNK_TOPUP, wei equivalent of 1 ETH).
const SafeChunkTopup = 1_000_000_000_000_000_000

// walletFilename returns the dense, zero-indexed keystore filename mandated
// by §4.8: wallet_{i}.json.
func walletFilename(i int) string {
	return fmt.Sprintf("wallet_%d.json", i)
}

// Pool is a collection of Chunker signing identities persisted as encrypted
// keystore files under dir. mu is the single explicit lock from §5, guarding
// byAddress during concurrent creation.
type Pool struct {
	dir      string
	password string

	mu        sync.Mutex
	byAddress map[common.Address]string

	chunkers []*Chunker
}

// NewPool returns a Pool rooted at dir, encrypting/decrypting keystores with
// password.
func NewPool(dir, password string) *Pool {
	return &Pool{dir: dir, password: password, byAddress: make(map[common.Address]string)}
}

// Chunkers returns the chunkers loaded by the most recent LoadChunkers call.
func (p *Pool) Chunkers() []*Chunker {
	return p.chunkers
}

// CreateChunkers generates n fresh secp256k1 keys in parallel, each
// encrypted under the pool's password into wallet_{i}.json (§4.8). Files are
// written atomically via a temp-file-then-rename, so a partially-written
// keystore never appears under its final name.
func (p *Pool) CreateChunkers(n int) error {
	if p.dir == "" {
		return ErrKeystoreDirRequired
	}
	if err := os.MkdirAll(p.dir, 0o700); err != nil {
		return fmt.Errorf("superaccount: creating keystore directory: %w", err)
	}

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return p.createChunker(i)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("superaccount: creating chunkers: %w", err)
	}
	return nil
}

func (p *Pool) createChunker(i int) error {
	signer, err := ethsigner.NewSigner()
	if err != nil {
		return fmt.Errorf("generating chunker %d key: %w", i, err)
	}

	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    signer.Address(),
		PrivateKey: signer.PrivateKey(),
	}
	encrypted, err := keystore.EncryptKey(key, p.password, keystore.StandardScryptN, keystore.StandardScryptP)
	if err != nil {
		return fmt.Errorf("encrypting chunker %d: %w", i, err)
	}

	finalPath := filepath.Join(p.dir, walletFilename(i))
	tmpPath := finalPath + ".tmp"
	if err := os.WriteFile(tmpPath, encrypted, 0o600); err != nil {
		return fmt.Errorf("writing chunker %d keystore: %w", i, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("finalizing chunker %d keystore: %w", i, err)
	}

	p.mu.Lock()
	p.byAddress[signer.Address()] = finalPath
	p.mu.Unlock()
	return nil
}

// LoadChunkers decrypts wallet_0.json..wallet_{n-1}.json (§4.8). If n <= 0,
// n is taken to be the number of *.json files in the directory; files are
// still looked up only by those dense wallet_{i}.json names, so after a gap
// in the indices the highest-numbered wallets are not loaded, and other
// *.json files are counted but never read. A missing index is logged and
// skipped, per §4.8's invariant that a gap never silently substitutes
// another wallet.
func (p *Pool) LoadChunkers(n int) error {
	if p.dir == "" {
		return ErrKeystoreDirRequired
	}
	if n <= 0 {
		count, err := countJSONFiles(p.dir)
		if err != nil {
			return fmt.Errorf("superaccount: reading keystore directory: %w", err)
		}
		n = count
	}

	chunkers := make([]*Chunker, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(p.dir, walletFilename(i))
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warnw("keystore file for chunker not found, skipping", "index", i, "path", path)
			continue
		}

		key, err := keystore.DecryptKey(data, p.password)
		if err != nil {
			log.Warnw("failed to decrypt chunker keystore, skipping", "index", i, "path", path, "error", err)
			continue
		}

		signer := (*Chunker)(key.PrivateKey)
		chunkers = append(chunkers, signer)

		p.mu.Lock()
		p.byAddress[signer.Address()] = path
		p.mu.Unlock()
	}

	p.chunkers = chunkers
	return nil
}

func countJSONFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			count++
		}
	}
	return count, nil
}

// Fund sends SafeChunkTopup wei to every loaded chunker from funder, using a
// plain transfer transaction rather than a bundle (§4.8).
func (p *Pool) Fund(ctx context.Context, transport submit.Transport, funder *ethsigner.Signer) error {
	if len(p.chunkers) == 0 {
		return ErrNoChunkersLoaded
	}
	for _, chunker := range p.chunkers {
		log.Infow("funding chunker", "address", chunker.Address().Hex())
		if err := fundOne(ctx, transport, funder, chunker.Address()); err != nil {
			return fmt.Errorf("superaccount: funding chunker %s: %w", chunker.Address().Hex(), err)
		}
	}
	return nil
}

func fundOne(ctx context.Context, transport submit.Transport, funder *ethsigner.Signer, to common.Address) error {
	nonce, err := transport.NonceAt(ctx, funder.Address())
	if err != nil {
		return fmt.Errorf("preparing transfer: %w", err)
	}

	tx := gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   big.NewInt(bundle.ChainID),
		Nonce:     nonce,
		GasTipCap: big.NewInt(bundle.InitialMaxPriorityFee),
		GasFeeCap: big.NewInt(bundle.InitialMaxFee),
		Gas:       21_000,
		To:        &to,
		Value:     big.NewInt(SafeChunkTopup),
	})
	signedTx, err := gethtypes.SignTx(tx, gethtypes.LatestSignerForChainID(big.NewInt(bundle.ChainID)), funder.PrivateKey())
	if err != nil {
		return fmt.Errorf("signing transfer: %w", err)
	}
	if err := transport.SendRawTransaction(ctx, signedTx); err != nil {
		return fmt.Errorf("sending transfer: %w", err)
	}
	return nil
}
