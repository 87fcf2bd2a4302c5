package goknot

import "errors"

// Errors
var (
	ErrMalformedSig       = errors.New("malformed signature encoding")
	ErrBadCrossingIndex   = errors.New("signature crossing index out of range")
	ErrSignClash          = errors.New("crossing assigned two different signs")
	ErrBadConnection      = errors.New("invalid outgoing or incoming connection")
	ErrExtraneousBits     = errors.New("extraneous bits in packed strand or sign data")
	ErrMultipleComponents = errors.New("signatures of multiple-component links are not supported")
	ErrBadDiagram         = errors.New("bad or inconsistent diagram")
	ErrBadTangleType      = errors.New("bad tangle type")
	ErrBadGaussCode       = errors.New("bad Gauss code")
	ErrBadCatalogParam    = errors.New("bad catalog param")
)
