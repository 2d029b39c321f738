package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "faqctl",
		Short: "faqctl - maintenance commands for the widget backend",
		Long: `faqctl talks to the widget backend admin API.

Environment variables:
  ASKBAR_API_URL   API base URL (default: http://localhost:8080)
  ASKBAR_TOKEN     Admin bearer token`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("base-url", "", "API base URL (overrides env)")
	rootCmd.PersistentFlags().String("token", "", "Admin bearer token (overrides env)")

	rootCmd.AddCommand(syncEmbeddingsCmd())
	rootCmd.AddCommand(clearCacheCmd())
	rootCmd.AddCommand(showConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func syncEmbeddingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-embeddings",
		Short: "Backfill missing FAQ embeddings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := callAdmin(cmd, http.MethodPost, "/api/v1/admin/embeddings/sync")
			if err != nil {
				return err
			}
			var report struct {
				Updated int `json:"updated"`
				Total   int `json:"total"`
			}
			if err := json.Unmarshal(body, &report); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			fmt.Printf("synced %d of %d FAQs\n", report.Updated, report.Total)
			return nil
		},
	}
}

func clearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Drop cached catalog snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := callAdmin(cmd, http.MethodPost, "/api/v1/admin/cache/clear"); err != nil {
				return err
			}
			fmt.Println("cache cleared")
			return nil
		},
	}
}

func showConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the widget bootstrap payload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := call(cmd, http.MethodGet, "/api/v1/config", "")
			if err != nil {
				return err
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, body, "", "  "); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			fmt.Println(pretty.String())
			return nil
		},
	}
}

func callAdmin(cmd *cobra.Command, method, path string) ([]byte, error) {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("ASKBAR_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("admin token required (--token or ASKBAR_TOKEN)")
	}
	return call(cmd, method, path, token)
}

func call(cmd *cobra.Command, method, path, token string) ([]byte, error) {
	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = os.Getenv("ASKBAR_API_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(body))
	}
	return body, nil
}
