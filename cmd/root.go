// Package cmd implements the domainsale command-line interface: a single
// command that checks one domain's sale status and prints it in the
// requested format, structured the way blocky's cmd package wires its
// cobra root and subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"

	domainsale "github.com/domainsale/domainsale"
	"github.com/domainsale/domainsale/config"
	"github.com/domainsale/domainsale/log"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals
var (
	version   = "undefined"
	buildTime = "undefined"

	configPath string

	enableRDAP    bool
	cacheTTL      int
	timeout       int
	outputFormat  string
	verbose       bool
	upstream      string
	requireDNSSEC bool
)

// NewRootCommand builds the domainsale root command: `domainsale <domain>`.
func NewRootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "domainsale <domain>",
		Short: "Check whether a domain is advertised for sale",
		Long: `domainsale looks up a domain's "_for-sale" TXT record, validates it, and
optionally cross-checks the result against RDAP.

Complete specification: the "_for-sale" TXT record format (RFC draft).`,
		Args: cobra.ExactArgs(1),
		RunE: runGetStatus,
	}

	c.Flags().StringVar(&configPath, "config", "", "path to a domainsale YAML config file")
	c.Flags().BoolVar(&enableRDAP, "rdap", false, "enable RDAP cross-check")
	c.Flags().IntVar(&cacheTTL, "cache-ttl", domainsale.DefaultCacheTTL, "cache TTL in seconds")
	c.Flags().IntVar(&timeout, "timeout", domainsale.DefaultTimeout, "timeout for DNS and RDAP queries in seconds")
	c.Flags().StringVar(&outputFormat, "format", "text", "output format: text, json, or html")
	c.Flags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	c.Flags().StringVar(&upstream, "upstream", domainsale.DefaultUpstream, "DNSSEC-validating resolver to query")
	c.Flags().BoolVar(&requireDNSSEC, "require-dnssec", true, "reject responses that are not DNSSEC-authenticated")

	c.AddCommand(NewVersionCommand())

	return c
}

func runGetStatus(c *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if verbose {
		cfg.Log.Level = "debug"
	}

	log.ConfigureLogger(cfg.Log)

	flags := c.Flags()

	if !flags.Changed("rdap") {
		enableRDAP = cfg.EnableRDAP
	}

	if !flags.Changed("cache-ttl") {
		cacheTTL = int(cfg.CacheTTL.Seconds())
	}

	if !flags.Changed("timeout") {
		timeout = int(cfg.Timeout.Seconds())
	}

	if !flags.Changed("upstream") {
		upstream = cfg.Upstream
	}

	if !flags.Changed("require-dnssec") {
		requireDNSSEC = cfg.RequireDNSSEC
	}

	domain := args[0]

	opts := domainsale.Options{
		EnableRDAPCheck: enableRDAP,
		CacheTTL:        cacheTTL,
		Timeout:         timeout,
		Upstream:        upstream,
		RequireDNSSEC:   &requireDNSSEC,
	}

	resp, err := domainsale.Default().GetStatus(context.Background(), domain, opts)
	if err != nil {
		return fmt.Errorf("checking %s: %w", domain, err)
	}

	if err := printResponse(c, resp); err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		os.Exit(1)
	}

	return nil
}

func printResponse(c *cobra.Command, resp *domainsale.Response) error {
	switch outputFormat {
	case "json":
		body, err := resp.ToJSON()
		if err != nil {
			return err
		}

		c.Println(string(body))
	case "html":
		body, err := resp.ToHTML()
		if err != nil {
			return err
		}

		c.Println(body)
	default:
		c.Println(resp.ToText())
	}

	return nil
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
