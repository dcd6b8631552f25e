// Command bib2json converts a BibTeX bibliography export into the JSON (and
// script-embedded JS) consumed by the website's publications page.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pubsite/src/internal/bibtex"
	"pubsite/src/internal/pubs"
	"pubsite/src/internal/site"
)

var errUsage = errors.New("usage: bib2json INPUT.bib OUTPUT.json")

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "bib2json INPUT.bib OUTPUT.json",
		Short: "Convert a BibTeX export into the website's publications JSON",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := site.Default()
			if configPath != "" {
				c, err := site.Load(configPath)
				if err != nil {
					return err
				}
				cfg = c
			}
			return convert(cmd, args[0], args[1], cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Site config YAML (js_var, header, venue_fields)")
	return cmd
}

func convert(cmd *cobra.Command, in, out string, cfg site.Config) error {
	raw, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	entries := bibtex.Parse(string(raw))
	records := pubs.Project(entries, cfg.VenueFields)
	pubs.Sort(records)

	jsPath, err := site.WriteArtifacts(records, out, cfg)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Wrote %d publications to %s", len(records), out)
	if jsPath != "" {
		msg += " and " + jsPath
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
