package search

import (
	"github.com/nguyentantai21042004/atci/internal/catalog"
	"github.com/nguyentantai21042004/atci/internal/logger"
)

type implSearcher struct {
	roots   []string
	catalog catalog.Catalog
	logger  logger.Logger
}

// New creates a Searcher over roots. cat supplies video snapshots; rows it
// does not know are described from disk. cat may be nil.
func New(roots []string, cat catalog.Catalog, l logger.Logger) Searcher {
	return &implSearcher{
		roots:   roots,
		catalog: cat,
		logger:  l,
	}
}
