package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dvnet-org/dv-exit-svc/db"
)

// A cluster definition file entry
type clusterEntry struct {
	LockHash    string           `yaml:"lock_hash"`
	ForkVersion string           `yaml:"fork_version"`
	Threshold   int              `yaml:"threshold"`
	Operators   []string         `yaml:"operators"`
	Validators  []validatorEntry `yaml:"validators"`
}

type validatorEntry struct {
	PublicKey    string   `yaml:"public_key"`
	PublicShares []string `yaml:"public_shares"`
}

// LoadClusters loads cluster definitions from a YAML file so the service
// can be provisioned at startup without the admin API.
func LoadClusters(path string) ([]*db.Cluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cluster file: %w", err)
	}

	var entries []clusterEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse cluster file: %w", err)
	}

	clusters := make([]*db.Cluster, 0, len(entries))
	for _, entry := range entries {
		if entry.LockHash == "" {
			return nil, fmt.Errorf("cluster entry is missing a lock hash")
		}
		if entry.Threshold < 1 || entry.Threshold > len(entry.Operators) {
			return nil, fmt.Errorf("cluster [%s] has threshold %d with %d operators", entry.LockHash, entry.Threshold, len(entry.Operators))
		}
		cluster := db.NewCluster(entry.LockHash, entry.ForkVersion, entry.Threshold)
		for _, enr := range entry.Operators {
			cluster.Operators = append(cluster.Operators, db.Operator{IdentityRecord: enr})
		}
		for _, validator := range entry.Validators {
			if len(validator.PublicShares) != len(entry.Operators) {
				return nil, fmt.Errorf("validator [%s] has %d shares for %d operators", validator.PublicKey, len(validator.PublicShares), len(entry.Operators))
			}
			cluster.Validators = append(cluster.Validators, &db.DistributedValidator{
				PublicKey:    validator.PublicKey,
				PublicShares: validator.PublicShares,
			})
		}
		clusters = append(clusters, cluster)
	}
	return clusters, nil
}
