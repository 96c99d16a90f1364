package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/config"
)

func TestExecutorConfigUsesConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Executor.MaxParallel = 7
	cfg.Executor.FailFast = true

	out := executorConfig(runCmd, cfg)

	if out.MaxParallel != 7 {
		t.Errorf("max parallel = %d, want 7", out.MaxParallel)
	}
	if !out.FailFast {
		t.Error("fail fast should come from config")
	}
	if !out.EnableParallel {
		t.Error("parallel execution should default to enabled")
	}
}

func TestExecutorConfigFlagOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Executor.MaxParallel = 7

	if err := runCmd.Flags().Set("max-parallel", "2"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := runCmd.Flags().Set("timeout", "90s"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	defer func() {
		runCmd.Flags().Set("max-parallel", "0")
		runCmd.Flags().Set("timeout", "0s")
		runNoParallel = false
		runDryRun = false
	}()
	runNoParallel = true
	runDryRun = true

	out := executorConfig(runCmd, cfg)

	if out.MaxParallel != 2 {
		t.Errorf("flag should override config, got %d", out.MaxParallel)
	}
	if out.TimeoutPerSubtask != 90*time.Second {
		t.Errorf("timeout = %v, want 90s", out.TimeoutPerSubtask)
	}
	if out.EnableParallel {
		t.Error("--no-parallel should disable parallel execution")
	}
	if !out.DryRun {
		t.Error("--dry-run should propagate")
	}
}

func TestLoadChainManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chains.yaml")
	manifest := `
chains:
  - chain_id: infra-base
    task_type: implement
    description: Provision shared infrastructure
  - chain_id: fix-http-bug
    task_type: fix
    description: Fix the flaky HTTP retry
    depends_on:
      - target_chain_id: infra-base
        type: blocked_by
`
	if err := os.WriteFile(path, []byte(manifest), 0600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	loaded, err := loadChainManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(loaded.Chains) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(loaded.Chains))
	}

	fix := loaded.Chains[1]
	if fix.ChainID != "fix-http-bug" {
		t.Errorf("chain id = %q", fix.ChainID)
	}
	if len(fix.DependsOn) != 1 || fix.DependsOn[0].TargetChainID != "infra-base" {
		t.Errorf("dependency not parsed: %+v", fix.DependsOn)
	}
}

func TestLoadChainManifestMissingFile(t *testing.T) {
	if _, err := loadChainManifest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing manifest should error")
	}
}
