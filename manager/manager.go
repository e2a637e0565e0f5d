package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/db"
	"github.com/dvnet-org/dv-exit-svc/exits"
)

var (
	ErrUnknownCluster      = errors.New("no cluster registered with the provided lock hash")
	ErrExitNotFound        = errors.New("no exit record found for the provided validator")
	ErrThresholdNotReached = errors.New("not enough partial exit signatures have been collected yet")
)

// Manager for the exit validation service. It owns the database and
// serializes submissions: partial exit handling is a read-modify-write of
// the validator's record, so concurrent submissions must not interleave.
type ExitServiceManager struct {
	database        *db.Database
	genesisProvider exits.GenesisProvider

	// Internal fields
	snapshots map[string]*db.Database
	logger    *slog.Logger
	lock      sync.Mutex
}

// Creates a new manager
func NewExitServiceManager(logger *slog.Logger, genesisProvider exits.GenesisProvider) *ExitServiceManager {
	return &ExitServiceManager{
		database:        db.NewDatabase(logger),
		genesisProvider: genesisProvider,
		snapshots:       map[string]*db.Database{},
		logger:          logger,
	}
}

// Set the database for the manager directly if you need to custom provision it
func (m *ExitServiceManager) SetDatabase(database *db.Database) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.database = database
}

// Take a snapshot of the current database state
func (m *ExitServiceManager) TakeSnapshot(name string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.snapshots[name] = m.database.Clone()
	m.logger.Info("Took DB snapshot", "name", name)
}

// Revert to a snapshot of the database state
func (m *ExitServiceManager) RevertToSnapshot(name string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	snapshot, exists := m.snapshots[name]
	if !exists {
		return fmt.Errorf("snapshot with name [%s] does not exist", name)
	}
	m.database = snapshot
	m.logger.Info("Reverted to DB snapshot", "name", name)
	return nil
}

// Registers a cluster definition
func (m *ExitServiceManager) AddCluster(cluster *db.Cluster) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.database.AddCluster(cluster)
}

// Gets a cluster definition by lock hash
func (m *ExitServiceManager) GetCluster(lockHash string) *db.Cluster {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.database.GetCluster(lockHash)
}

// HandlePartialExitUpload validates an operator's exit payload and
// records every newly verified partial exit. It returns the accepted
// blobs; a payload that only repeats recorded partials returns an empty
// list and no error.
func (m *ExitServiceManager) HandlePartialExitUpload(ctx context.Context, lockHash string, payload api.ExitPayload) ([]api.ExitBlob, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	cluster := m.database.GetCluster(lockHash)
	if cluster == nil {
		return nil, fmt.Errorf("%w: [%s]", ErrUnknownCluster, lockHash)
	}

	accepted, err := exits.ValidateExitBlobs(ctx, cluster, payload, m.genesisProvider, m.database.ExitRecordSet(lockHash))
	if err != nil {
		return nil, err
	}
	for _, blob := range accepted {
		err = m.database.ApplyExitBlob(lockHash, blob, payload.ShareIndex, len(cluster.Operators))
		if err != nil {
			return nil, fmt.Errorf("error recording partial exit for [%s]: %w", blob.PublicKey, err)
		}
	}
	return accepted, nil
}

// GetFullExit recombines the partial signatures on record for a validator
// into a broadcastable exit. The exit is withheld until the cluster's
// threshold of partials has been collected.
func (m *ExitServiceManager) GetFullExit(lockHash string, pubkey string) (api.FullExitBlob, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	cluster := m.database.GetCluster(lockHash)
	if cluster == nil {
		return api.FullExitBlob{}, fmt.Errorf("%w: [%s]", ErrUnknownCluster, lockHash)
	}
	record := m.database.ExitRecordSet(lockHash).GetExitRecord(pubkey)
	if record == nil {
		return api.FullExitBlob{}, fmt.Errorf("%w: [%s]", ErrExitNotFound, pubkey)
	}
	if record.SignatureCount() < cluster.Threshold {
		return api.FullExitBlob{}, fmt.Errorf("%w: have %d of %d", ErrThresholdNotReached, record.SignatureCount(), cluster.Threshold)
	}
	return exits.RecombineExitBlobs(record)
}
