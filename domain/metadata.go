package domain

import (
	"github.com/x-xyz/marketclient/base/ctx"
)

// MetadataRecord is the descriptive part of an asset. Fields missing from the
// document are empty strings.
type MetadataRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageRef    string `json:"image"`
}

type MetadataUseCase interface {
	// Fetch resolves uri and parses the document it points at
	Fetch(ctx.Ctx, string) (*MetadataRecord, error)
}
