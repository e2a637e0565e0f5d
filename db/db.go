package db

import (
	"fmt"
	"log/slog"

	"github.com/rocket-pool/node-manager-core/beacon"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/eth2"
)

// In-memory store for cluster definitions and exit records. The database
// itself is not synchronized; the manager serializes access so that two
// submissions for the same validator can't both observe stale records.
type Database struct {
	// Cluster definitions, keyed by lock hash
	Clusters map[string]*Cluster

	// Exit records, keyed by lock hash and then by normalized validator pubkey
	ExitRecords map[string]map[string]*ExitRecord

	// Internal fields
	logger *slog.Logger
}

// Creates a new database
func NewDatabase(logger *slog.Logger) *Database {
	return &Database{
		Clusters:    map[string]*Cluster{},
		ExitRecords: map[string]map[string]*ExitRecord{},
		logger:      logger,
	}
}

// Adds a cluster definition to the database
func (d *Database) AddCluster(cluster *Cluster) error {
	if _, exists := d.Clusters[cluster.LockHash]; exists {
		return fmt.Errorf("cluster with lock hash [%s] already exists", cluster.LockHash)
	}
	d.Clusters[cluster.LockHash] = cluster
	d.ExitRecords[cluster.LockHash] = map[string]*ExitRecord{}
	return nil
}

// Gets a cluster definition by lock hash
func (d *Database) GetCluster(lockHash string) *Cluster {
	return d.Clusters[lockHash]
}

// RecordSet is a single cluster's exit records, keyed by normalized
// validator pubkey.
type RecordSet map[string]*ExitRecord

// GetExitRecord returns the exit record for the given validator pubkey,
// or nil if the validator has no partial exits on record yet.
func (r RecordSet) GetExitRecord(pubkey string) *ExitRecord {
	return r[api.NormalizePublicKey(pubkey)]
}

// ExitRecordSet returns the exit records for a cluster.
func (d *Database) ExitRecordSet(lockHash string) RecordSet {
	return d.ExitRecords[lockHash]
}

// ApplyExitBlob upserts a newly verified partial exit into the cluster's
// records. A first submission (or one with a higher epoch than the
// record) starts a fresh record; an equal-epoch submission fills in the
// submitting operator's slot. Callers must have already classified the
// blob: this never overwrites a conflicting signature.
func (d *Database) ApplyExitBlob(lockHash string, blob api.ExitBlob, shareIndex int, numOperators int) error {
	records, exists := d.ExitRecords[lockHash]
	if !exists {
		return fmt.Errorf("cluster with lock hash [%s] not found", lockHash)
	}

	epoch, err := eth2.ParseUint64(blob.SignedExitMessage.Message.Epoch)
	if err != nil {
		return fmt.Errorf("error parsing epoch: %w", err)
	}
	validatorIndex, err := eth2.ParseUint64(blob.SignedExitMessage.Message.ValidatorIndex)
	if err != nil {
		return fmt.Errorf("error parsing validator index: %w", err)
	}
	signature, err := beacon.HexToValidatorSignature(blob.SignedExitMessage.Signature)
	if err != nil {
		return fmt.Errorf("error parsing partial exit signature: %w", err)
	}

	pubkey := api.NormalizePublicKey(blob.PublicKey)
	record := records[pubkey]
	if record == nil || epoch > record.Epoch {
		record = NewExitRecord(pubkey, epoch, validatorIndex, numOperators)
		records[pubkey] = record
	}
	record.SharesExitData[shareIndex-1].PartialExitSignature = signature.HexWithPrefix()

	d.logger.Info("Recorded partial exit",
		"validator", pubkey,
		"epoch", epoch,
		"share_index", shareIndex,
		"collected", record.SignatureCount(),
	)
	return nil
}

// Clones the database
func (d *Database) Clone() *Database {
	clone := NewDatabase(d.logger)
	for lockHash, cluster := range d.Clusters {
		clone.Clusters[lockHash] = cluster.Clone()
		cloneRecords := map[string]*ExitRecord{}
		for pubkey, record := range d.ExitRecords[lockHash] {
			cloneRecords[pubkey] = record.Clone()
		}
		clone.ExitRecords[lockHash] = cloneRecords
	}
	return clone
}
