package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/omerlefaruk/CasareRPA-sub022/internal/chains"
	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

var (
	chainsManifest string
	chainsStrategy string
)

// chainManifest is the on-disk format for a set of chain specs.
type chainManifest struct {
	Chains []*models.ChainSpec `yaml:"chains"`
}

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "Order a set of task chains by their dependencies",
	Long: `Load a YAML manifest of chain specs, register them, and print
a safe execution order.

The "topological" strategy prints one linear sequence. The "parallel"
strategy groups mutually-independent chains into waves that may be
dispatched concurrently.

Manifest format:

  chains:
    - chain_id: infra-base
      task_type: implement
      description: Provision the shared infrastructure
    - chain_id: fix-http-bug
      task_type: fix
      description: Fix the flaky HTTP retry
      depends_on:
        - target_chain_id: infra-base
          type: blocked_by`,
	RunE: runChains,
}

func init() {
	chainsCmd.Flags().StringVarP(&chainsManifest, "file", "f", "", "Chain manifest YAML file (required)")
	chainsCmd.Flags().StringVar(&chainsStrategy, "strategy", chains.StrategyParallel, "Ordering strategy: topological or parallel")
	chainsCmd.MarkFlagRequired("file")
}

func runChains(cmd *cobra.Command, args []string) error {
	manifest, err := loadChainManifest(chainsManifest)
	if err != nil {
		return err
	}
	if len(manifest.Chains) == 0 {
		return fmt.Errorf("manifest %s declares no chains", chainsManifest)
	}

	manager := chains.NewManager()
	ids := make([]string, 0, len(manifest.Chains))
	for _, spec := range manifest.Chains {
		if err := manager.RegisterChain(spec); err != nil {
			return fmt.Errorf("register chain: %w", err)
		}
		ids = append(ids, spec.ChainID)
	}

	order, err := manager.ExecutionOrder(ids, chainsStrategy)
	if err != nil {
		return fmt.Errorf("order chains: %w", err)
	}

	fmt.Printf("%d chain(s), strategy: %s\n\n", len(ids), order.Strategy)

	if order.Strategy == chains.StrategyParallel {
		for _, wave := range order.Waves {
			fmt.Printf("Wave %d:\n", wave.Index)
			for _, id := range wave.ChainIDs {
				printChainLine(manager, id)
			}
		}
	} else {
		for i, id := range order.Sequence {
			fmt.Printf("%2d. ", i+1)
			printChainLine(manager, id)
		}
	}
	return nil
}

func printChainLine(manager *chains.Manager, id string) {
	spec, err := manager.Spec(id)
	if err != nil {
		return
	}

	startable, blocking, _ := manager.CanStart(id)
	marker := color.GreenString("ready")
	if !startable {
		marker = color.YellowString("blocked by %v", blocking)
	}
	fmt.Printf("  %s [%s] %s: %s\n", id, spec.TaskType, spec.Description, marker)
}

func loadChainManifest(path string) (*chainManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	manifest := &chainManifest{}
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return manifest, nil
}
