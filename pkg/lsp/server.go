// Package lsp provides a Language Server Protocol (LSP) server that publishes
// unused and duplicate import diagnostics for open TypeScript documents.
package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
)

const (
	serverName = "importcheck"

	methodPublishDiagnostics = "textDocument/publishDiagnostics"
	callDiagnostics          = "diagnostics"

	defaultCacheSize = 256
)

// Options configures a Server. Zero values are usable.
type Options struct {
	Analyzer   *importcheck.Analyzer
	Extensions []string
	CacheSize  int
	Version    string
	Logger     *slog.Logger
	Metrics    *observability.ServerMetrics
}

type cacheKey struct {
	uri     string
	version int32
}

type cachedFinding struct {
	finding     importcheck.FileFinding
	diagnostics []protocol.Diagnostic
}

// Server implements the import diagnostics LSP server.
type Server struct {
	store      *DocumentStore
	handler    protocol.Handler
	analyzer   *importcheck.Analyzer
	cache      *lru.Cache[cacheKey, cachedFinding]
	extensions []string
	version    string
	logger     *slog.Logger
	metrics    *observability.ServerMetrics
}

// NewServer creates a new LSP server with default handlers.
func NewServer(opts Options) (*Server, error) {
	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	cache, err := lru.New[cacheKey, cachedFinding](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create diagnostics cache: %w", err)
	}

	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = importcheck.NewAnalyzer(importcheck.DefaultConfig())
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = []string{".ts", ".tsx"}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		store:      NewDocumentStore(),
		analyzer:   analyzer,
		cache:      cache,
		extensions: extensions,
		version:    opts.Version,
		logger:     logger,
		metrics:    opts.Metrics,
	}

	srv.handler = protocol.Handler{
		Initialize:            srv.initialize,
		Initialized:           srv.initialized,
		Shutdown:              srv.shutdown,
		SetTrace:              srv.setTrace,
		TextDocumentDidOpen:   srv.didOpen,
		TextDocumentDidChange: srv.didChange,
		TextDocumentDidSave:   srv.didSave,
		TextDocumentDidClose:  srv.didClose,
		TextDocumentHover:     srv.hover,
	}

	return srv, nil
}

// Run starts the LSP server on stdio and blocks until the client disconnects.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	err := lspServer.RunStdio()
	if err != nil {
		return fmt.Errorf("lsp server: %w", err)
	}

	return nil
}

// Supports reports whether documents at uri are analysed.
func (srv *Server) Supports(uri string) bool {
	return slices.Contains(srv.extensions, path.Ext(uri))
}

// Diagnostics analyses doc, reusing the cached result for the same URI and version.
func (srv *Server) Diagnostics(uri string, doc Document) []protocol.Diagnostic {
	return srv.analyze(uri, doc).diagnostics
}

func (srv *Server) analyze(uri string, doc Document) cachedFinding {
	key := cacheKey{uri: uri, version: doc.Version}

	ctx := context.Background()

	cached, ok := srv.cache.Get(key)
	srv.metrics.RecordCacheLookup(ctx, ok)

	if ok {
		return cached
	}

	end := srv.metrics.StartCall(ctx, observability.SurfaceLSP, callDiagnostics)
	finding := srv.analyzer.Analyze(uri, []byte(doc.Text))
	entry := cachedFinding{finding: finding, diagnostics: BuildDiagnostics(doc.Text, finding)}

	end(observability.OutcomeOK)
	srv.cache.Add(key, entry)

	srv.logger.Debug("analysed document",
		"uri", uri, "version", doc.Version,
		"unused", len(finding.Unused), "duplicates", len(finding.Duplicates))

	return entry
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()

	openClose := true
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &syncKind,
		Save:      true,
	}

	version := srv.version
	if version == "" {
		version = "dev"
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	srv.cache.Purge()

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.Set(uri, Document{Text: params.TextDocument.Text, Version: params.TextDocument.Version})
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	if len(params.ContentChanges) == 0 {
		return nil
	}

	// Full sync: the last change carries the whole document.
	text, ok := changeText(params.ContentChanges[len(params.ContentChanges)-1])
	if !ok {
		return nil
	}

	srv.store.Set(uri, Document{Text: text, Version: params.TextDocument.Version})
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func changeText(change any) (string, bool) {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text, true
	case protocol.TextDocumentContentChangeEvent:
		return c.Text, c.Range == nil
	case map[string]any:
		text, ok := c["text"].(string)

		return text, ok
	default:
		return "", false
	}
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	// Clear stale diagnostics in the client.
	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func (srv *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI

	doc, ok := srv.store.Get(uri)
	if !ok || !srv.Supports(uri) {
		return nil, nil // LSP expects a null hover for unknown documents.
	}

	value := hoverText(srv.analyze(uri, doc).finding, int(params.Position.Line)+1)
	if value == "" {
		return nil, nil // LSP expects a null hover when there is nothing to show.
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
	}, nil
}

// hoverText lists the findings whose declaring statement starts on line (1-based).
func hoverText(finding importcheck.FileFinding, line int) string {
	var sb strings.Builder

	for _, b := range finding.Unused {
		if b.Line == line {
			fmt.Fprintf(&sb, "- unused: `%s` from `%s`\n", b.Raw, b.Module)
		}
	}

	for _, b := range finding.Duplicates {
		if b.Line == line {
			fmt.Fprintf(&sb, "- duplicate: `%s` from `%s`\n", b.Raw, b.Module)
		}
	}

	return sb.String()
}

func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	diagnostics := []protocol.Diagnostic{}

	if doc, ok := srv.store.Get(uri); ok && srv.Supports(uri) {
		diagnostics = srv.Diagnostics(uri, doc)
	}

	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}
