package scanapi

import (
	"context"

	"github.com/Bahjat/a11y-scan/internal/model"
)

// ScanProvider defines the contract for any scan engine.
type ScanProvider interface {
	Scan(ctx context.Context, targetURL string) (*model.ScanReport, error)
}
