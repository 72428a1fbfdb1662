package cli

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/live"
	"github.com/matzehuels/graphize/pkg/pubsub"
	"github.com/matzehuels/graphize/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API. With a
// file argument the file becomes the live document and is reloaded on
// change; without one the live document starts empty and is replaced with
// PUT /api/v1/tree.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the parse and render API over HTTP",
		Example: `  graphize serve
  graphize serve config.yaml --addr :9000
  curl -s --data-binary @data.json localhost:8080/api/v1/render?format=svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, noCache)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().Duration("debounce", 0, "quiet period before reloading a changed file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addParseFlags(cmd.Flags())
	addRenderFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runServe(ctx context.Context, args []string, noCache bool) error {
	cfg := c.settings()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	pub := pubsub.NewSSEPublisher(c.Logger)
	pub.ConfigureTopic(live.Topic, pubsub.TopicConfig{BufferSize: 1})
	defer pub.Close()

	source := "api"
	if len(args) == 1 {
		source = args[0]
	}
	popts := cfg.PipelineOptions()
	doc := live.New(live.Config{Source: source, Runner: runner, Options: popts, Publisher: pub})

	srv := server.New(server.Config{
		Runner:    runner,
		Document:  doc,
		Publisher: pub,
		Defaults:  popts,
		MaxBody:   cfg.Serve.MaxBody,
		Logger:    c.Logger,
	})

	if len(args) == 1 {
		path := args[0]
		if _, _, err := doc.Reload(ctx, path, cfg.Serve.MaxBody); err != nil {
			if !errs.Is(err, errs.ErrCodeInvalidContent) {
				return err
			}
			printWarning("%s: %s", path, errs.UserMessage(err))
		}
		go func() {
			err := c.followDocument(ctx, path, doc, func(u update) {
				if u.err != nil {
					c.Logger.Warn("reload failed", "path", path, "err", errs.UserMessage(u.err))
					return
				}
				c.Logger.Info("reloaded", "path", path, "revision", u.revision, "nodes", len(u.state.Nodes))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				c.Logger.Error("watch stopped", "path", path, "err", err)
			}
		}()
	}

	addr := cfg.Serve.Addr
	printInfo("Serving on %s", StyleValue.Render("http://"+displayAddr(addr)))
	printDetail("POST /api/v1/parse  POST /api/v1/render  GET /api/v1/tree  GET /api/v1/events")
	printNextStep("Try", "curl -s --data-binary '{\"a\": [1, 2]}' http://"+displayAddr(addr)+"/api/v1/render?format=dot")

	err := srv.ListenAndServe(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// displayAddr turns a listen address into one a browser can open.
func displayAddr(addr string) string {
	if addr == "" {
		return server.DefaultAddr
	}
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
