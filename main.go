package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"wechat_article_proxy/config"
	"wechat_article_proxy/generator"
	"wechat_article_proxy/publisher"
	"wechat_article_proxy/server"
)

const shutdownGrace = 5 * time.Second

func main() {
	configPath := flag.String("config", "config/config.json", "path to config.json")
	addr := flag.String("addr", "", "http listen address (overrides config.server_addr)")
	static := flag.String("static", "", "page served at / (overrides config.static_file)")
	mdPath := flag.String("md", "", "render a markdown file to WeChat HTML and exit")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}
	if *static != "" {
		cfg.StaticFile = *static
	}
	logger := newLogger(cfg.LogLevel, *verbose)

	// 离线排版模式
	if *mdPath != "" {
		if err := renderFile(*mdPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := serve(cfg, logger); err != nil {
		logger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

func newLogger(level string, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("log_level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func renderFile(path string) error {
	md, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := publisher.RenderMarkdown(string(md))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func buildUploader(cfg config.WeChatConfig, client *publisher.Client) publisher.ImageUploader {
	if cfg.ImageUpload == config.UploadMaterial {
		return publisher.NewMaterialUploader(client)
	}
	return publisher.PlaceholderUploader{}
}

func serve(cfg config.Config, logger *logrus.Logger) error {
	llm, err := generator.NewLLM(cfg.LLM, logger)
	if err != nil {
		return err
	}
	agent, err := generator.NewAgent(llm, cfg.CoverImageURL, logger)
	if err != nil {
		return err
	}
	wechat := publisher.NewClient(cfg.WeChat, logger)
	srv, err := server.New(cfg, server.Deps{
		Agent:    agent,
		WeChat:   wechat,
		Uploader: buildUploader(cfg.WeChat, wechat),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLM.TimeoutDuration() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     cfg.ServerAddr,
			"provider": cfg.LLM.Provider,
			"model":    cfg.LLM.Model,
			"upload":   cfg.WeChat.ImageUpload,
		}).Info("微信公众号代理服务器启动")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
