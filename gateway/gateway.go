// Package gateway implements the read-only HTTP interface over retrieve and
// largebundle: fetching bundles and resolving/reconstructing large-bundle
// manifests by outer transaction hash.
package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/loadnetwork/bundler/log"
	"github.com/loadnetwork/bundler/retrieve"
)

// Config configures a Gateway's HTTP server.
type Config struct {
	Host      string
	Port      int
	Transport retrieve.Transport
}

// Gateway serves the read-only bundle/large-bundle HTTP API.
type Gateway struct {
	router    *chi.Mux
	transport retrieve.Transport
}

// New builds a Gateway and starts serving it in the background, mirroring
// the teacher's api.New: construct, wire the router, and hand control back
// to the caller immediately.
func New(conf Config) (*Gateway, error) {
	if conf.Transport == nil {
		return nil, fmt.Errorf("gateway: missing retrieval transport")
	}

	g := &Gateway{transport: conf.Transport}
	g.initRouter()

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.Host, conf.Port)
		log.Infow("starting gateway server", "addr", addr)
		if err := http.ListenAndServe(addr, g.router); err != nil {
			log.Errorw(err, "gateway server stopped")
		}
	}()
	return g, nil
}

// Router returns the chi router, for testing with httptest.
func (g *Gateway) Router() *chi.Mux {
	return g.router
}

func (g *Gateway) initRouter() {
	g.router = chi.NewRouter()
	g.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	g.router.Use(middleware.Logger)
	g.router.Use(middleware.Recoverer)
	g.router.Use(middleware.Timeout(30 * time.Second))

	g.registerHandlers()
}

func (g *Gateway) registerHandlers() {
	g.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})

	g.router.Get(V1EnvelopesEndpoint, g.envelopesV1)
	g.router.Get(V1EnvelopeIDsEndpoint, g.envelopeIDsV1)
	g.router.Get(V1EnvelopesFullEndpoint, g.envelopesFullV1)

	g.router.Get(V2EnvelopesEndpoint, g.envelopesV2)
	g.router.Get(V2EnvelopeIDsEndpoint, g.envelopeIDsV2)
	g.router.Get(V2EnvelopesFullEndpoint, g.envelopesFullV2)

	g.router.Get(V2ResolveEndpoint, g.resolveManifest)
	g.router.Get(V2ReconstructEndpoint, g.reconstructManifest)
}
