// Package core contains the reader-mode business logic.
// It is framework-agnostic: the browser surface, record store, caches and
// HTTP client are all injected through interfaces.
//
// The core package is organized into several sub-packages:
//
// - domain: Records, extraction results and reserved URL conventions
// - extractor: Readerable decision and readability extraction
// - sanitizer: Allow-list cleaning of extracted content
// - document: Reader document assembly and post-processing
// - siterules: Host-specific cleanups
// - pipeline: Extraction, sanitizing and assembly with result caching
// - content: Resolves displayable HTML for a record
// - reconcile: Keeps records sharing a URL in agreement
// - loader: The load state machine driving a browser surface
// - ingest: Feed entries to records
// - workers: Background cache warmer
// - errors: Custom error types
// - interfaces: Contracts for external dependencies (store, cache, browser, HTTP, logger)
//
// # Usage Example
//
//	ctrl, err := loader.New(loader.Options{
//	    Store:   store,   // implements interfaces.ContentStore
//	    Browser: surface, // implements interfaces.BrowserSurface
//	    Logger:  logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer ctrl.Close()
//	surface.Attach(ctrl.Handle)
//
package core
