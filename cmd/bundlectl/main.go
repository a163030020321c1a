// Command bundlectl is a flat CLI harness exercising the bundler library
// end-to-end: building, signing and submitting a bundle; retrieving one back;
// and writing, resolving and reconstructing a large bundle across a
// SuperAccount's chunker pool.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	flag "github.com/spf13/pflag"

	"github.com/loadnetwork/bundler/bundle"
	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
	"github.com/loadnetwork/bundler/largebundle"
	"github.com/loadnetwork/bundler/log"
	"github.com/loadnetwork/bundler/retrieve"
	"github.com/loadnetwork/bundler/rpc"
	"github.com/loadnetwork/bundler/submit"
	"github.com/loadnetwork/bundler/superaccount"
)

var (
	action = flag.String("action", "", "write|retrieve|write-large|resolve|reconstruct|chunkers-create|chunkers-fund (required)")

	rpcEndpoint = flag.String("rpc.endpoint", "", "EVM JSON-RPC endpoint")
	privKey     = flag.String("privkey", "", "hex-encoded signing private key")

	inputFile  = flag.String("input", "", "file to read the payload from (write/write-large)")
	outputFile = flag.String("output", "", "file to write the reconstructed payload to (reconstruct)")
	contentType = flag.String("contentType", "", "MIME type recorded on the bundle/manifest")

	hashFlag = flag.String("hash", "", "outer transaction or manifest hash")

	keystoreDir      = flag.String("keystoreDir", "", "directory holding chunker keystore files")
	keystorePassword = flag.String("keystorePassword", "", "password protecting chunker keystore files")
	chunkersCount    = flag.Int("chunkersCount", 0, "number of chunkers to create/load (0 = discover all)")

	timeout = flag.Duration("timeout", 2*time.Minute, "overall command timeout")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "bundlectl --action=<action> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	log.Init("info", "stdout", nil)

	if err := run(); err != nil {
		log.Errorw(err, "bundlectl failed")
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *action {
	case "write":
		return runWrite(ctx)
	case "retrieve":
		return runRetrieve(ctx)
	case "write-large":
		return runWriteLarge(ctx)
	case "resolve":
		return runResolve(ctx)
	case "reconstruct":
		return runReconstruct(ctx)
	case "chunkers-create":
		return runChunkersCreate()
	case "chunkers-fund":
		return runChunkersFund(ctx)
	case "":
		return fmt.Errorf("missing required --action flag")
	default:
		return fmt.Errorf("unknown action %q", *action)
	}
}

func dialTransport(ctx context.Context) (*rpc.Client, error) {
	if *rpcEndpoint == "" {
		return nil, fmt.Errorf("--rpc.endpoint is required")
	}
	client, err := rpc.Dial(ctx, *rpcEndpoint)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func signerFromFlag() (*ethsigner.Signer, error) {
	if *privKey == "" {
		return nil, fmt.Errorf("--privkey is required")
	}
	return ethsigner.NewSignerFromHex(strings.TrimPrefix(*privKey, "0x"))
}

func readInput() ([]byte, error) {
	if *inputFile == "" {
		return nil, fmt.Errorf("--input is required")
	}
	return os.ReadFile(*inputFile)
}

func parseHashFlag() (common.Hash, error) {
	if *hashFlag == "" {
		return common.Hash{}, fmt.Errorf("--hash is required")
	}
	return common.HexToHash(*hashFlag), nil
}

func runWrite(ctx context.Context) error {
	signer, err := signerFromFlag()
	if err != nil {
		return err
	}
	data, err := readInput()
	if err != nil {
		return err
	}
	transport, err := dialTransport(ctx)
	if err != nil {
		return err
	}

	env, err := bundle.NewEnvelopeBuilder().Data(data).Build()
	if err != nil {
		return err
	}
	signed, err := bundle.SignEnvelope(signer, env)
	if err != nil {
		return err
	}
	calldata, err := bundle.Encode(&bundle.BundleData{Envelopes: []bundle.SignedEnvelope{*signed}})
	if err != nil {
		return err
	}
	tx, err := submit.CreateBundleSync(ctx, transport, signer, bundle.BABE1, calldata)
	if err != nil {
		return err
	}
	log.Infow("bundle written", "hash", tx.Hash().Hex())
	fmt.Println(tx.Hash().Hex())
	return nil
}

func runRetrieve(ctx context.Context) error {
	h, err := parseHashFlag()
	if err != nil {
		return err
	}
	transport, err := dialTransport(ctx)
	if err != nil {
		return err
	}
	data, err := retrieve.RetrieveEnvelopes(ctx, transport, h, bundle.BABE1)
	if err != nil {
		return err
	}
	for i, env := range data.Envelopes {
		fmt.Printf("envelope %d: hash=%s bytes=%d\n", i, env.Hash.Hex(), len(env.Input))
	}
	return nil
}

func runWriteLarge(ctx context.Context) error {
	signer, err := signerFromFlag()
	if err != nil {
		return err
	}
	data, err := readInput()
	if err != nil {
		return err
	}
	transport, err := dialTransport(ctx)
	if err != nil {
		return err
	}

	builder := largebundle.NewBuilder().Data(data).Signer(signer).ContentType(*contentType)

	var pool *superaccount.Pool
	if *keystoreDir != "" {
		pool = superaccount.NewPool(*keystoreDir, *keystorePassword)
		if err := pool.LoadChunkers(*chunkersCount); err != nil {
			return err
		}
		builder = builder.SuperAccount(pool).ChunkersCount(*chunkersCount)
	}

	lb, err := builder.Build()
	if err != nil {
		return err
	}

	if pool != nil {
		err = lb.SuperPropagateChunks(ctx, transport)
	} else {
		err = lb.PropagateChunks(ctx, transport)
	}
	if err != nil {
		return err
	}

	manifestHash, err := lb.Finalize(ctx, transport)
	if err != nil {
		return err
	}
	log.Infow("large bundle written", "manifest", manifestHash.Hex(), "chunks", len(lb.Chunks()))
	fmt.Println(manifestHash.Hex())
	return nil
}

func runResolve(ctx context.Context) error {
	h, err := parseHashFlag()
	if err != nil {
		return err
	}
	transport, err := dialTransport(ctx)
	if err != nil {
		return err
	}
	receipts, ct, err := largebundle.ResolveManifest(ctx, transport, h)
	if err != nil {
		return err
	}
	fmt.Printf("content-type: %s\n", ct)
	for i, r := range receipts {
		fmt.Printf("chunk %d: %s\n", i, r.Hex())
	}
	return nil
}

func runReconstruct(ctx context.Context) error {
	h, err := parseHashFlag()
	if err != nil {
		return err
	}
	transport, err := dialTransport(ctx)
	if err != nil {
		return err
	}
	payload, ct, err := largebundle.Reconstruct(ctx, transport, h)
	if err != nil {
		return err
	}
	if *outputFile == "" {
		return fmt.Errorf("--output is required")
	}
	if err := os.WriteFile(*outputFile, payload, 0o644); err != nil {
		return err
	}
	log.Infow("reconstructed payload written", "path", *outputFile, "bytes", len(payload), "contentType", ct)
	return nil
}

func runChunkersCreate() error {
	if *keystoreDir == "" {
		return fmt.Errorf("--keystoreDir is required")
	}
	if *chunkersCount <= 0 {
		return fmt.Errorf("--chunkersCount must be positive")
	}
	pool := superaccount.NewPool(*keystoreDir, *keystorePassword)
	if err := pool.CreateChunkers(*chunkersCount); err != nil {
		return err
	}
	log.Infow("chunkers created", "count", *chunkersCount, "dir", *keystoreDir)
	return nil
}

func runChunkersFund(ctx context.Context) error {
	signer, err := signerFromFlag()
	if err != nil {
		return err
	}
	transport, err := dialTransport(ctx)
	if err != nil {
		return err
	}
	pool := superaccount.NewPool(*keystoreDir, *keystorePassword)
	if err := pool.LoadChunkers(*chunkersCount); err != nil {
		return err
	}
	if err := pool.Fund(ctx, transport, signer); err != nil {
		return err
	}
	log.Infow("chunkers funded", "count", len(pool.Chunkers()))
	return nil
}
