package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"
	e2types "github.com/wealdtech/go-eth2-types/v2"

	"github.com/dvnet-org/dv-exit-svc/config"
	"github.com/dvnet-org/dv-exit-svc/eth2"
	"github.com/dvnet-org/dv-exit-svc/server"
)

const (
	Version string = "0.1.0"
)

// Run
func main() {
	// Initialise application
	app := cli.NewApp()

	// Set application info
	app.Name = "dv-exit-svc"
	app.Usage = "Validates, stores, and recombines partial voluntary exit signatures for distributed validators"
	app.Version = Version

	ipFlag := &cli.StringFlag{
		Name:    "ip",
		Aliases: []string{"i"},
		Usage:   "The IP address to bind the API server to",
		Value:   "127.0.0.1",
	}
	portFlag := &cli.UintFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Usage:   "The port to bind the API server to",
		Value:   49642,
	}
	beaconApiFlag := &cli.StringFlag{
		Name:    "beacon-api",
		Aliases: []string{"b"},
		Usage:   "The URL of the beacon node API to fetch genesis info from",
		Value:   "http://localhost:5052",
	}
	clusterFileFlag := &cli.StringFlag{
		Name:    "cluster-file",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML file of cluster definitions to load at startup",
	}

	app.Flags = []cli.Flag{
		ipFlag,
		portFlag,
		beaconApiFlag,
		clusterFileFlag,
	}
	app.Action = func(c *cli.Context) error {
		logger := slog.Default()

		// The BLS backend must be initialized before any signature work
		err := e2types.InitBLS()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing BLS: %v", err)
			os.Exit(1)
		}

		// Create the server
		ip := c.String(ipFlag.Name)
		port := uint16(c.Uint(portFlag.Name))
		beaconClient := eth2.NewClient(c.String(beaconApiFlag.Name), logger)
		server, err := server.NewExitServiceServer(logger, ip, port, beaconClient)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating server: %v", err)
			os.Exit(1)
		}

		// Load the cluster file if one was provided
		clusterFile := c.String(clusterFileFlag.Name)
		if clusterFile != "" {
			clusters, err := config.LoadClusters(clusterFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading cluster file: %v", err)
				os.Exit(1)
			}
			for _, cluster := range clusters {
				err = server.GetManager().AddCluster(cluster)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error registering cluster: %v", err)
					os.Exit(1)
				}
			}
			logger.Info(fmt.Sprintf("Loaded %d clusters from %s", len(clusters), clusterFile))
		}

		// Start it
		wg := &sync.WaitGroup{}
		err = server.Start(wg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error starting server: %v", err)
			os.Exit(1)
		}
		port = server.GetPort()

		// Handle process closures
		termListener := make(chan os.Signal, 1)
		signal.Notify(termListener, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-termListener
			fmt.Println("Shutting down...")
			err := server.Stop()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error stopping server: %v", err)
			}
		}()

		// Run the daemon until closed
		logger.Info(fmt.Sprintf("Started exit service on %s:%d", ip, port))
		wg.Wait()
		fmt.Println("Server stopped.")
		return nil
	}

	// Run application
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
