// Package genesis maintains access to the genesis file.
package genesis

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// maxDifficulty is the number of hex characters in a sha256 digest.
const maxDifficulty = 64

// Genesis represents the consensus parameters every node in the network must
// share for blocks to validate the same way.
type Genesis struct {
	ChainName    string  `yaml:"chain_name"`    // Human readable name for this running network.
	Difficulty   uint16  `yaml:"difficulty"`    // Number of leading zero hex characters a proof digest needs.
	MiningReward float64 `yaml:"mining_reward"` // Amount credited to the miner of each block.
}

// Default returns the parameters used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		ChainName:    "ledger",
		Difficulty:   4,
		MiningReward: 1,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. If the file does not exist, the
// default parameters are returned.
func Load(path string) (Genesis, error) {
	gen := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gen, nil
		}
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	if err := yaml.Unmarshal(content, &gen); err != nil {
		return Genesis{}, fmt.Errorf("parsing genesis file: %w", err)
	}

	if err := gen.Validate(); err != nil {
		return Genesis{}, err
	}

	return gen, nil
}

// Validate checks the parameters can be used to run a chain.
func (g Genesis) Validate() error {
	if g.Difficulty > maxDifficulty {
		return fmt.Errorf("difficulty %d exceeds digest length %d", g.Difficulty, maxDifficulty)
	}

	if math.IsNaN(g.MiningReward) || math.IsInf(g.MiningReward, 0) {
		return fmt.Errorf("mining reward %v is not a number", g.MiningReward)
	}

	if g.MiningReward < 0 {
		return fmt.Errorf("mining reward %v can't be negative", g.MiningReward)
	}

	return nil
}

// Save writes the parameters to the genesis file.
func Save(path string, gen Genesis) error {
	if err := gen.Validate(); err != nil {
		return err
	}

	content, err := yaml.Marshal(gen)
	if err != nil {
		return fmt.Errorf("encoding genesis: %w", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("writing genesis file: %w", err)
	}

	return nil
}
