package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"urlkit/linkaudit"
)

type linksReport struct {
	Links   []linkaudit.Link  `yaml:"links"`
	Summary linkaudit.Summary `yaml:"summary"`
}

func linksCmd(a *app) *cobra.Command {
	var (
		sitemap    bool
		robotsPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "links FILE",
		Short: "Audit the links of an HTML page or sitemap",
		Long: `Extracts every link from FILE ("-" for stdin), resolves it against the
current location and reports whether it is internal or external.
With --robots, internal links are also checked against robots.txt
for the configured user agent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
			doc, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			opts := []linkaudit.AuditorOption{
				linkaudit.WithUserAgent(a.cfg.UserAgent),
				linkaudit.WithLogger(a.logger),
			}
			if robotsPath != "" {
				robotsTxt, err := os.ReadFile(robotsPath)
				if err != nil {
					return fmt.Errorf("failed to read robots file: %w", err)
				}
				robots, err := linkaudit.NewRobotsChecker(string(robotsTxt))
				if err != nil {
					return fmt.Errorf("failed to parse robots file: %w", err)
				}
				opts = append(opts, linkaudit.WithRobots(robots))
			}
			auditor := linkaudit.NewAuditor(a.util, opts...)

			var links []linkaudit.Link
			if sitemap {
				links, err = auditor.AuditSitemap(doc)
			} else {
				links, err = auditor.AuditHTML(doc)
			}
			if err != nil {
				return err
			}
			summary := linkaudit.Summarize(links)
			a.logger.Debug("Audited %d links (%d external, %d disallowed)", summary.Total, summary.External, summary.Disallowed)

			out := cmd.OutOrStdout()
			if format == "yaml" {
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(linksReport{Links: links, Summary: summary})
			}
			for _, link := range links {
				fmt.Fprintf(out, "%s\t%s\t%s\n", kind(link), access(link), link.Resolved)
			}
			fmt.Fprintf(out, "total=%d internal=%d external=%d disallowed=%d\n",
				summary.Total, summary.Internal, summary.External, summary.Disallowed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&sitemap, "sitemap", false, "treat FILE as a sitemap instead of HTML")
	cmd.Flags().StringVar(&robotsPath, "robots", "", "robots.txt file to check internal links against")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or yaml")

	return cmd
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

func kind(link linkaudit.Link) string {
	if link.External {
		return "external"
	}
	return "internal"
}

func access(link linkaudit.Link) string {
	if link.Allowed {
		return "allowed"
	}
	return "disallowed"
}
