package eth2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rocket-pool/node-manager-core/utils"
)

const genesisRoute string = "eth/v1/beacon/genesis"

var (
	ErrRootNotFound = errors.New("beacon node response did not include a genesis validators root")
)

// Response body of the beacon node's genesis endpoint
type genesisResponse struct {
	Data struct {
		GenesisValidatorsRoot string `json:"genesis_validators_root"`
	} `json:"data"`
}

// Client is a minimal beacon node API client. The service only ever reads
// the genesis info; everything else on the beacon API is out of scope.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Creates a new beacon node client
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  http.DefaultClient,
		logger:  logger,
	}
}

// GetGenesisValidatorsRoot fetches the genesis validators root from the
// beacon node. The fork version is only used to name the network in logs;
// an unknown fork version is logged and otherwise ignored. There is no
// retry here: a transport failure surfaces directly and the caller decides
// whether to retry the whole operation.
func (c *Client) GetGenesisValidatorsRoot(ctx context.Context, forkVersion string) ([]byte, error) {
	network, known := NetworkName(forkVersion)
	if !known {
		c.logger.Warn("No network name known for fork version", "fork_version", forkVersion)
	} else {
		c.logger.Debug("Fetching genesis info", "network", network)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, genesisRoute)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating genesis request: %w", err)
	}
	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("error requesting genesis info: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code [%d] from genesis request", response.StatusCode)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading genesis response: %w", err)
	}

	var genesis genesisResponse
	err = json.Unmarshal(body, &genesis)
	if err != nil {
		return nil, fmt.Errorf("error deserializing genesis response: %w", err)
	}
	if genesis.Data.GenesisValidatorsRoot == "" {
		return nil, ErrRootNotFound
	}

	root, err := utils.DecodeHex(genesis.Data.GenesisValidatorsRoot)
	if err != nil {
		return nil, fmt.Errorf("error decoding genesis validators root [%s]: %w", genesis.Data.GenesisValidatorsRoot, err)
	}
	return root, nil
}
