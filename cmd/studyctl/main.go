package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/studysearch/internal/config"
	"github.com/kailas-cloud/studysearch/internal/semantic"
	"github.com/kailas-cloud/studysearch/internal/text"
	"github.com/kailas-cloud/studysearch/internal/transport/osdr"
	"github.com/kailas-cloud/studysearch/internal/version"
	studysearch "github.com/kailas-cloud/studysearch/pkg/sdk"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "studyctl",
		Usage:     "Query and inspect semantic study search from the command line",
		Version:   version.String(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "upstream",
				Usage:   "Study search API endpoint",
				Value:   config.DefaultUpstreamURL,
				EnvVars: []string{"OSDR_SEARCH_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Upstream request timeout",
				Value: 30 * time.Second,
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Records requested per upstream page",
				Value: 25,
			},
			&cli.IntFlag{
				Name:  "max-pages",
				Usage: "Upstream pages fetched per query",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "stemmer",
				Usage: "Stemming algorithm (snowball, porter)",
				Value: text.StemmerSnowball,
			},
			&cli.IntFlag{
				Name:  "min-token-length",
				Usage: "Drop tokens of this many runes or fewer",
				Value: text.DefaultMinTokenLength,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "query",
				Usage:     "Rank studies against a search query",
				ArgsUsage: "<query>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-n",
						Aliases: []string{"n"},
						Usage:   "Number of studies to show",
						Value:   5,
					},
					&cli.IntFlag{
						Name:  "num-topics",
						Usage: "Maximum latent dimension",
						Value: semantic.DefaultNumTopics,
					},
					&cli.StringFlag{
						Name:  "redis",
						Usage: "Cache upstream records in Redis or Valkey at this address",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				},
			},
			{
				Name:      "tokenize",
				Usage:     "Print the tokens a text is reduced to",
				ArgsUsage: "<text>",
				Action:    tokenizeCommand,
			},
			{
				Name:      "inspect",
				Usage:     "Fit models over the studies matching a query and print their sizes",
				ArgsUsage: "<query>",
				Action:    inspectCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "num-topics",
						Usage: "Maximum latent dimension",
						Value: semantic.DefaultNumTopics,
					},
				},
			},
			{
				Name:   "health",
				Usage:  "Check the study search API",
				Action: healthCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})))
	return nil
}

func argText(c *cli.Context, what string) (string, error) {
	s := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if s == "" {
		return "", fmt.Errorf("%s is required", what)
	}
	return s, nil
}

func sdkOptions(c *cli.Context) []studysearch.Option {
	return []studysearch.Option{
		studysearch.WithUpstream(c.String("upstream")),
		studysearch.WithTimeout(c.Duration("timeout")),
		studysearch.WithPaging(c.Int("page-size"), c.Int("max-pages")),
		studysearch.WithStemmer(c.String("stemmer")),
		studysearch.WithMinTokenLength(c.Int("min-token-length")),
		studysearch.WithUserAgent("studyctl/" + version.Version),
		studysearch.WithLogger(slog.Default()),
	}
}

func queryCommand(c *cli.Context) error {
	query, err := argText(c, "query")
	if err != nil {
		return err
	}

	opts := append(sdkOptions(c), studysearch.WithNumTopics(c.Int("num-topics")))
	if addr := c.String("redis"); addr != "" {
		opts = append(opts, studysearch.WithRedis(addr, ""))
	}

	ctx := c.Context
	client, err := studysearch.New(ctx, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	studies, err := client.Search(ctx, query, &studysearch.SearchOptions{TopN: c.Int("top-n")})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(studies)
	}
	if len(studies) == 0 {
		_, err := fmt.Fprintln(c.App.Writer, "No studies found.")
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RELEVANCE\tSTUDY\tTITLE\tURL")
	for _, s := range studies {
		fmt.Fprintf(tw, "%.2f%%\t%s\t%s\t%s\n", s.Relevance, s.Accession, s.Title, s.URL)
	}
	return tw.Flush()
}

func tokenizeCommand(c *cli.Context) error {
	input, err := argText(c, "text")
	if err != nil {
		return err
	}
	tok, err := text.New(
		text.WithStemmer(c.String("stemmer")),
		text.WithMinTokenLength(c.Int("min-token-length")),
	)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, strings.Join(tok.Tokenize(input), " "))
	return err
}

func inspectCommand(c *cli.Context) error {
	query, err := argText(c, "query")
	if err != nil {
		return err
	}
	tok, err := text.New(
		text.WithStemmer(c.String("stemmer")),
		text.WithMinTokenLength(c.Int("min-token-length")),
	)
	if err != nil {
		return err
	}
	upstream, err := osdr.NewClient(osdr.Config{
		BaseURL:   c.String("upstream"),
		Timeout:   c.Duration("timeout"),
		PageSize:  c.Int("page-size"),
		MaxPages:  c.Int("max-pages"),
		UserAgent: "studyctl/" + version.Version,
	})
	if err != nil {
		return err
	}

	ctx := c.Context
	table, err := upstream.Fetch(ctx, query)
	if err != nil {
		return err
	}
	corpus := semantic.BuildCorpus(tok, table)

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "records\t%d\n", corpus.Len())
	for _, channel := range []struct {
		name string
		docs [][]string
	}{
		{"title", corpus.Titles},
		{"description", corpus.Descriptions},
	} {
		if err := inspectChannel(ctx, tw, channel.name, channel.docs, c.Int("num-topics")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func inspectChannel(ctx context.Context, w io.Writer, name string, docs [][]string, numTopics int) error {
	var tokens int
	for _, d := range docs {
		tokens += len(d)
	}
	stages := make(map[string]time.Duration)
	m, err := semantic.Fit(ctx, docs, semantic.FitOptions{
		NumTopics: numTopics,
		Stoplist:  semantic.DefaultDomainStoplist,
		Observe:   func(stage string, d time.Duration) { stages[stage] = d },
	})
	if err != nil {
		return fmt.Errorf("fit %s model: %w", name, err)
	}
	fmt.Fprintf(w, "%s.tokens\t%d\n", name, tokens)
	fmt.Fprintf(w, "%s.vocabulary\t%d\n", name, m.Dictionary().Len())
	fmt.Fprintf(w, "%s.topics\t%d\n", name, m.NumTopics())
	fmt.Fprintf(w, "%s.fit\t%s\n", name, stages[semantic.StageLSI].Round(time.Microsecond))
	return nil
}

func healthCommand(c *cli.Context) error {
	client, err := studysearch.New(c.Context, sdkOptions(c)...)
	if err != nil {
		return err
	}
	defer client.Close()

	hs := client.Health(c.Context)
	fmt.Fprintf(c.App.Writer, "status: %s\n", hs.Status)
	for k, v := range hs.Checks {
		fmt.Fprintf(c.App.Writer, "  %s: %s\n", k, v)
	}
	if !hs.OK() {
		return cli.Exit("study search API is unavailable", 1)
	}
	return nil
}
