// Package repository loads graduate employment survey snapshots and serves
// filtered views of them.
package repository

import (
	"context"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

// Source reads a complete survey dataset.
type Source interface {
	// Name identifies the source kind in logs and metrics.
	Name() string
	// Load reads every record. Rows whose year cannot be read are skipped.
	Load(ctx context.Context) (model.Dataset, error)
}
