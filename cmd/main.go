package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/obsfs/obsfs/backends"
	"github.com/obsfs/obsfs/backends/obs"
	"github.com/obsfs/obsfs/config"
	"github.com/obsfs/obsfs/metadata"
	"github.com/obsfs/obsfs/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "obsfs",
	Short: "obsfs - object storage operations over Huawei Cloud OBS",
	Long: `obsfs translates filesystem-style operations into signed requests
against an OBS bucket: list, read, write, stat, delete, copy.`,
}

var configFilePath string

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List entries under a path",
	RunE:  runList,
}

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print an object's content to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

var putCmd = &cobra.Command{
	Use:   "put <local-file> <path>",
	Short: "Upload a local file to a path",
	Args:  cobra.ExactArgs(2),
	RunE:  runPut,
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show metadata for an object or directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory marker",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkdir,
}

var cpCmd = &cobra.Command{
	Use:   "cp <src> <dst>",
	Short: "Server-side copy an object",
	Args:  cobra.ExactArgs(2),
	RunE:  runCopy,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the obsfs configuration and display the loaded settings",
	RunE:  runValidateConfig,
}

var (
	lsRecursive bool
	lsLimit     int
	contentType string
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "Path to configuration file")

	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "r", false, "List all objects below the path, recursively")
	lsCmd.Flags().IntVar(&lsLimit, "limit", 0, "Maximum number of entries to list (0 = unlimited)")
	putCmd.Flags().StringVar(&contentType, "content-type", "", "Content type for the uploaded object (default: derived from extension)")

	configCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(lsCmd, catCmd, putCmd, rmCmd, statCmd, mkdirCmd, cpCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// newBackend loads configuration and constructs the OBS adapter shared by
// all commands.
func newBackend() (backends.Storage, *zap.Logger, error) {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initializeLogger(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.Metrics.ListenAddr != "" {
		metrics.RegisterMetrics()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.ListenAddr, mux); err != nil {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	backend, err := obs.NewAdapter(cfg.Backend, nil, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OBS backend: %w", err)
	}

	return backend, logger, nil
}

func runList(cmd *cobra.Command, args []string) error {
	backend, logger, err := newBackend()
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	defer backend.Close()

	path := "/"
	if len(args) > 0 {
		path = args[0]
	}

	ctx := context.Background()
	opts := backends.ListOptions{Limit: lsLimit}

	var pager backends.Pager
	if lsRecursive {
		pager, err = backend.Scan(ctx, path, opts)
	} else {
		pager, err = backend.List(ctx, path, opts)
	}
	if err != nil {
		return err
	}

	for {
		entries, err := pager.Next(ctx)
		if err != nil {
			return err
		}
		if entries == nil {
			return nil
		}
		for _, e := range entries {
			if e.Metadata.IsDirectory() {
				fmt.Printf("%12s  %s\n", "-", e.Path)
			} else {
				fmt.Printf("%12d  %s\n", e.Metadata.Size, e.Path)
			}
		}
	}
}

func runCat(cmd *cobra.Command, args []string) error {
	backend, logger, err := newBackend()
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	defer backend.Close()

	_, body, err := backend.Open(context.Background(), args[0], backends.ReadOptions{})
	if err != nil {
		return err
	}
	defer body.Close()

	_, err = io.Copy(os.Stdout, body)
	return err
}

func runPut(cmd *cobra.Command, args []string) error {
	backend, logger, err := newBackend()
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	defer backend.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read local file: %w", err)
	}

	ct := contentType
	if ct == "" {
		ct = getContentType(args[1])
	}

	ctx := context.Background()
	writer, err := backend.Writer(ctx, args[1], backends.WriteOptions{ContentType: ct})
	if err != nil {
		return err
	}
	if err := writer.Write(ctx, data); err != nil {
		return err
	}
	return writer.Close(ctx)
}

func runDelete(cmd *cobra.Command, args []string) error {
	backend, logger, err := newBackend()
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	defer backend.Close()

	return backend.Delete(context.Background(), args[0])
}

func runStat(cmd *cobra.Command, args []string) error {
	backend, logger, err := newBackend()
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	defer backend.Close()

	md, err := backend.Stat(context.Background(), args[0], backends.StatOptions{})
	if err != nil {
		return err
	}

	fmt.Printf("Path:          %s\n", args[0])
	fmt.Printf("Type:          %s\n", md.Type)
	if md.Type == metadata.TypeFile {
		fmt.Printf("Size:          %d\n", md.Size)
		fmt.Printf("Content-Type:  %s\n", md.ContentType)
		fmt.Printf("ETag:          %s\n", md.ETag)
		if !md.LastModified.IsZero() {
			fmt.Printf("Last-Modified: %s\n", md.LastModified)
		}
	}
	return nil
}

func runMkdir(cmd *cobra.Command, args []string) error {
	backend, logger, err := newBackend()
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	defer backend.Close()

	return backend.CreateDirectory(context.Background(), args[0])
}

func runCopy(cmd *cobra.Command, args []string) error {
	backend, logger, err := newBackend()
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	defer backend.Close()

	return backend.Copy(context.Background(), args[0], args[1])
}

func runValidateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Println("Configuration is valid")
	fmt.Printf("  Bucket:   %s\n", cfg.Backend.Bucket)
	fmt.Printf("  Endpoint: %s\n", cfg.Backend.Endpoint)
	fmt.Printf("  Root:     %s\n", cfg.Backend.Root)
	fmt.Printf("  Log:      level=%s format=%s\n", cfg.Log.Level, cfg.Log.Format)
	return nil
}

// initializeLogger creates a zap logger with the configured level and format
func initializeLogger(logCfg config.LogConfig) (*zap.Logger, error) {
	var cfg zap.Config

	if logCfg.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	switch logCfg.Level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return cfg.Build()
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil && !strings.Contains(err.Error(), "sync /dev/stderr") {
		fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
	}
}

// getContentType returns the MIME type based on file extension
func getContentType(path string) string {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	default:
		return "application/octet-stream"
	}
}
