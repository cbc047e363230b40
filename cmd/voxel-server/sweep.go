package main

import (
	"fmt"

	"github.com/voxelkit/voxel/images/application"
	"github.com/voxelkit/voxel/images/persistence"
	"github.com/voxelkit/voxel/internal/config"
)

// runSweep performs a one-off staging purge with the same semantics as the
// scheduled nightly sweep.
func runSweep(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	staging, err := persistence.NewFileStagingStore(cfg.Storage.StagingDir)
	if err != nil {
		return fmt.Errorf("failed to open staging store: %w", err)
	}

	application.NewReclaimer(staging, application.SystemClock{}).Sweep()
	return nil
}
