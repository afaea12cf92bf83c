// Package rdf implements RDF Dataset Canonicalization (URDNA2015 /
// RDFC-1.0) over the JSON-LD documents this module signs and verifies:
// capabilities, invocations, and the documents formed by stripping their
// proof field. https://json-ld.github.io/normalization/spec
package rdf

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/piprate/json-gold/ld"
	"go.bryk.io/zcap/errors"
)

// Error categories returned by Canonicalize, per the canonicalization
// contract.
var (
	// ErrContextResolutionFailed indicates a referenced JSON-LD context
	// could not be resolved by the offline document loader.
	ErrContextResolutionFailed = errors.New("context resolution failed")
	// ErrInvalidJSONLD indicates the input could not be parsed or expanded
	// as a JSON-LD document.
	ErrInvalidJSONLD = errors.New("invalid JSON-LD document")
)

// Local LD document loader for offline processing. Every context this
// module's documents may reference is embedded at build time; there is no
// network resolution in the canonicalization hot path.
var loaderLD *offlineLoader

// Main LD processor instance, lazily constructed.
var processorLD *ld.JsonLdProcessor

type offlineLoader struct {
	list map[string]*ld.RemoteDocument
}

func (ol *offlineLoader) init() {
	ol.list = make(map[string]*ld.RemoteDocument)
	ol.register(zcapContext, zcapV1)
	ol.register(securityContext, securityV1)
	ol.register(ed25519Context, ed255192020V1)
}

func (ol *offlineLoader) register(url, raw string) {
	doc, err := ld.DocumentFromReader(bytes.NewReader([]byte(raw)))
	if err != nil {
		// Contexts are embedded constants; a failure here is a build-time
		// defect, not a runtime condition.
		panic(fmt.Sprintf("rdf: invalid embedded context %s: %v", url, err))
	}
	ol.list[url] = &ld.RemoteDocument{DocumentURL: url, ContextURL: url, Document: doc}
}

func (ol *offlineLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	doc, ok := ol.list[u]
	if !ok {
		return nil, errors.Wrapf(ErrContextResolutionFailed, "unresolvable context: %s", u)
	}
	return doc, nil
}

// Canonicalize produces the canonical N-Quads byte sequence for the given
// JSON-LD document, per RDFC-1.0 (URDNA2015, application/n-quads). The
// result is independent of the input's JSON key order, whitespace, or
// context-array arrangement: two JSON-LD renderings of the same RDF
// dataset canonicalize to byte-identical output.
func Canonicalize(doc interface{}) ([]byte, error) {
	generic, err := toGenericDocument(doc)
	if err != nil {
		return nil, err
	}

	proc := processor()
	n, err := proc.Normalize(generic, options())
	if err != nil {
		return nil, errors.Wrap(err, ErrInvalidJSONLD.Error())
	}
	nq, ok := n.(string)
	if !ok {
		return nil, errors.Wrap(ErrInvalidJSONLD, "normalization did not produce an N-Quads string")
	}
	return []byte(nq), nil
}

// Expand returns the expanded form of a JSON-LD document, useful for
// inspecting how a document resolves against its context without signing
// it. http://www.w3.org/TR/json-ld-api/#expansion-algorithm
func Expand(doc interface{}) ([]byte, error) {
	generic, err := toGenericDocument(doc)
	if err != nil {
		return nil, err
	}
	expanded, err := processor().Expand(generic, options())
	if err != nil {
		return nil, errors.Wrap(err, ErrInvalidJSONLD.Error())
	}
	return json.Marshal(expanded)
}

func toGenericDocument(doc interface{}) (map[string]interface{}, error) {
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, ErrInvalidJSONLD.Error())
	}
	generic := make(map[string]interface{})
	if err = json.Unmarshal(js, &generic); err != nil {
		return nil, errors.Wrap(err, ErrInvalidJSONLD.Error())
	}
	return generic, nil
}

func processor() *ld.JsonLdProcessor {
	if processorLD == nil {
		processorLD = ld.NewJsonLdProcessor()
	}
	return processorLD
}

func options() *ld.JsonLdOptions {
	if loaderLD == nil {
		loaderLD = &offlineLoader{}
		loaderLD.init()
	}
	opts := ld.NewJsonLdOptions("")
	opts.ProcessingMode = ld.JsonLd_1_1
	opts.Format = "application/n-quads"
	opts.Algorithm = "URDNA2015"
	opts.DocumentLoader = loaderLD
	return opts
}
