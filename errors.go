package novelconv

import "errors"

// Sentinel errors for library operations.
var (
	// Registry errors.
	ErrNotFound        = errors.New("rule not found")
	ErrIndexOutOfRange = errors.New("registry index out of range")

	// Conversion errors.
	ErrNilDialect     = errors.New("reader and writer are required")
	ErrUnknownDialect = errors.New("unknown dialect")
	ErrNoFormatter    = errors.New("no formatter for block type")
	ErrRulePanic      = errors.New("rule failed")

	// PDF export errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrInvalidPaper   = errors.New("invalid paper size")
)
