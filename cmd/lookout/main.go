package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/soclabs/lookout/internal/config"
	"github.com/soclabs/lookout/internal/engine"
	"github.com/soclabs/lookout/internal/output"
	"github.com/soclabs/lookout/internal/probe"
	"github.com/soclabs/lookout/internal/recon"
	"github.com/soclabs/lookout/pkg/ports"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	output.Version = version

	var (
		jsonOutput  bool
		outputFile  string
		configFile  string
		portsList   string
		timeout     time.Duration
		readTimeout time.Duration
		scanTimeout time.Duration
		concurrency int
		rateLimit   int
		noColor     bool
		silent      bool
		verbose     bool
		skipWhois   bool
		skipGeo     bool
	)

	rootCmd := &cobra.Command{
		Use:   "lookout <domain|ip>",
		Short: "Single-target OSINT recon",
		Long:  "OSINT reconnaissance against one target — WHOIS and DNS records for domains, geolocation and a common-port scan with banner grabbing for IPs.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.ToLower(strings.TrimSpace(args[0]))
			if target == "" {
				return fmt.Errorf("target is required")
			}

			mode := engine.ModeDomain
			if net.ParseIP(target) != nil {
				mode = engine.ModeIP
			}

			// Respect NO_COLOR env var.
			if _, ok := os.LookupEnv("NO_COLOR"); ok {
				noColor = true
			}

			fileCfg := config.Default()
			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return err
				}
				fileCfg = loaded
			}

			catalog, err := fileCfg.Catalog()
			if err != nil {
				return err
			}
			if portsList != "" {
				parsed, err := parsePorts(portsList)
				if err != nil {
					return fmt.Errorf("invalid --ports: %w", err)
				}
				catalog, err = ports.FromPorts(parsed)
				if err != nil {
					return fmt.Errorf("invalid --ports: %w", err)
				}
			}

			// Flags override the config file.
			probeCfg := probe.Config{
				Catalog:        catalog,
				ConnectTimeout: fileCfg.ConnectTimeout.Std(),
				ReadTimeout:    fileCfg.ReadTimeout.Std(),
				ScanTimeout:    fileCfg.ScanTimeout.Std(),
				Concurrency:    fileCfg.Concurrency,
				RateLimit:      fileCfg.RateLimit,
			}
			if cmd.Flags().Changed("timeout") {
				probeCfg.ConnectTimeout = timeout
			}
			if cmd.Flags().Changed("read-timeout") {
				probeCfg.ReadTimeout = readTimeout
			}
			if cmd.Flags().Changed("scan-timeout") {
				probeCfg.ScanTimeout = scanTimeout
			}
			if cmd.Flags().Changed("concurrency") {
				probeCfg.Concurrency = concurrency
			}
			if cmd.Flags().Changed("rate") {
				probeCfg.RateLimit = rateLimit
			}

			userAgent := fmt.Sprintf("lookout/%s (+https://github.com/soclabs/lookout)", version)

			cfg := engine.Config{
				Target:    target,
				Mode:      mode,
				SkipWhois: skipWhois,
				SkipGeo:   skipGeo,
				Tool:      fmt.Sprintf("lookout/%s", version),
			}

			// Set up context with signal handling for clean Ctrl+C.
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)
			go func() {
				<-sigCh
				fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
				cancel()
			}()

			stages := engine.Stages{
				Whois:   recon.Whois{},
				Records: recon.Records{},
				Geo:     recon.Geo{UserAgent: userAgent},
				Scanner: recon.Scanner{Engine: probe.New(probeCfg)},
			}

			showProgress := !jsonOutput && !silent
			progress := output.NewProgress(os.Stderr, verbose, !showProgress)

			if showProgress {
				output.WriteHeader(os.Stderr, noColor)
			}

			report, err := stages.Run(ctx, cfg, progress)
			if err != nil {
				return err
			}

			if showProgress {
				progress.Complete()
			}

			if outputFile != "" {
				if err := output.SaveJSON(outputFile, report); err != nil {
					return err
				}
				if showProgress {
					fmt.Fprintf(os.Stderr, "Report saved to %s\n", outputFile)
				}
			}

			if jsonOutput {
				return output.WriteJSON(os.Stdout, report)
			}

			output.WriteTable(os.Stdout, report, noColor)
			output.WriteSummary(os.Stdout, report, noColor)
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output structured JSON to stdout")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the JSON report to a file")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file (timeouts, catalog overrides)")
	rootCmd.Flags().StringVar(&portsList, "ports", "", "Comma-separated port list (default: common catalog)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", time.Second, "Per-connection timeout")
	rootCmd.Flags().DurationVar(&readTimeout, "read-timeout", 2*time.Second, "Per-banner read timeout")
	rootCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", 0, "Overall scan deadline (0 = unbounded)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 20, "Max concurrent probes")
	rootCmd.Flags().IntVar(&rateLimit, "rate", 0, "Max connection attempts per second (0 = unlimited)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable terminal colors")
	rootCmd.Flags().BoolVar(&silent, "silent", false, "Results only, no progress output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose per-stage progress")
	rootCmd.Flags().BoolVar(&skipWhois, "skip-whois", false, "Skip the WHOIS lookup for domain targets")
	rootCmd.Flags().BoolVar(&skipGeo, "skip-geo", false, "Skip geolocation for IP targets")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("lookout {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parsePorts parses a comma-separated list of port numbers.
func parsePorts(s string) ([]int, error) {
	var result []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", p)
		}
		result = append(result, port)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no valid ports specified")
	}
	return result, nil
}
