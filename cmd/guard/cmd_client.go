package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd prints the running guard's lock state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the lock state of a running guard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, http.MethodGet, "/status")
	},
}

// lockCmd locks the running guard and broadcasts the lock command
var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the device and broadcast a lock command",
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, http.MethodPost, "/lock")
	},
}

func baseURL() string {
	if apiAddr != "" {
		return strings.TrimRight(apiAddr, "/")
	}
	addr := cfg.Server.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	return "http://" + addr
}

func callAPI(cmd *cobra.Command, method, path string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, baseURL()+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("guard unreachable: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("guard returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(pretty)
}
