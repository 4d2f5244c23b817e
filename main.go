package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"shopscribe/config"
	"shopscribe/export"
	"shopscribe/extract"
	"shopscribe/generator"
	"shopscribe/logbuf"
	"shopscribe/server"
	"shopscribe/session"
)

func main() {
	serve := flag.Bool("serve", false, "start the web studio")
	addr := flag.String("addr", "", "http listen address when --serve (overrides SHOPSCRIBE_ADDR)")
	out := flag.String("out", "", "write generated Markdown to this file instead of stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logs := logbuf.NewBuffer(500)
	logger := slog.New(logbuf.NewHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}),
		logs,
	))
	slog.SetDefault(logger)

	llm, err := buildLLM(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	orc, err := generator.NewOrchestrator(llm)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pipeline := extract.NewPipeline(&http.Client{Timeout: cfg.HTTPTimeout()})

	if *serve {
		srv, err := server.New(orc, pipeline, logs, logger, cfg.HTTPTimeout())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.Addr
		if *addr != "" {
			listen = *addr
		}
		logger.Info("starting web studio on " + listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// One-shot mode: read the source, run a single generation cycle, print
	// the Markdown rendering.
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: shopscribe [--serve] [--out file] <url | file | ->")
		os.Exit(1)
	}
	raw, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout())
	defer cancel()

	sess := session.New(uuid.NewString(), pipeline, orc, logger)
	if err := sess.Generate(ctx, raw); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	md := export.Markdown(sess.Content())
	if *out != "" {
		if err := os.WriteFile(*out, []byte(md), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(md)
}

// readInput treats the argument as a file path when one exists, "-" as stdin,
// and anything else as the raw input itself (URL or pasted text).
func readInput(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	if st, err := os.Stat(arg); err == nil && !st.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", arg, err)
		}
		return string(data), nil
	}
	return arg, nil
}

func buildLLM(cfg *config.Config) (generator.LLMClient, error) {
	switch cfg.Provider {
	case "mock":
		return &generator.MockLLM{Responses: []string{mockBatch}}, nil
	case "openai", "deepseek":
		// DeepSeek exposes an OpenAI-compatible API; config validation has
		// already required base_url for it.
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: cfg.Provider,
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}

const mockBatch = `{"header":"Sample product headline","description":"A generated sample description.","features":"- Feature one\n- Feature two","reviews":"Loved it.\nWould buy again."}`
