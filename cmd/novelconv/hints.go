package main

import (
	"context"
	"errors"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/internal/assets"
	"github.com/alnah/go-novelconv/internal/config"
	"github.com/alnah/go-novelconv/internal/hints"
)

// hintFor returns advice to print after err, or "".
func hintFor(err error, configName string) string {
	switch {
	case errors.Is(err, novelconv.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.NewEmbeddedLoader().Styles())
	case errors.Is(err, novelconv.ErrUnknownDialect):
		return hints.ForUnknownDialect(config.Targets())
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}
