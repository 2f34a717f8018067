package model

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy of the agent core. Only ErrCompletion can reach the caller
// as a hard failure, and only when no cached fallback interaction exists.
// Every other kind is absorbed locally and reflected in the Answer's
// degradation flags.
var (
	ErrMemory        = goerr.New("memory operation failed")
	ErrDataRetrieval = goerr.New("data retrieval failed")
	ErrCompletion    = goerr.New("completion invocation failed")
	ErrToolSelection = goerr.New("tool selection failed")
)
