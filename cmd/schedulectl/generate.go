package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noah-isme/unischeduler-api/internal/app"
	"github.com/noah-isme/unischeduler-api/internal/dto"
	"github.com/noah-isme/unischeduler-api/pkg/config"
	"github.com/noah-isme/unischeduler-api/pkg/logger"
)

var generateFile string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full generation pipeline once and print the schedule",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "generate request JSON (courses, preferences, term_year)")
	_ = generateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, err := readGenerateRequest(generateFile)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	application, err := app.New(ctx, cfg, logr)
	if err != nil {
		return err
	}
	application.Start(context.Background())
	defer application.Close()

	resp, err := application.Schedules.Generate(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), resp)
}

func readGenerateRequest(path string) (dto.GenerateScheduleRequest, error) {
	var req dto.GenerateScheduleRequest
	raw, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("decode request %s: %w", path, err)
	}
	return req, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
