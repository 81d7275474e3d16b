package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// NewLoginCmd asks the server to email a sign-in link.
func NewLoginCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Email yourself a sign-in link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(map[string]string{"email": args[0]})
			if err != nil {
				return err
			}
			var resp map[string]string
			if err := call(cmd, http.MethodPost, opts.API+"/api/auth/request", body, &resp); err != nil {
				return fmt.Errorf("request login link: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp["message"])
			fmt.Fprintln(cmd.OutOrStdout(), "Run 'ecolife verify <token>' with the token from the link.")
			return nil
		},
	}
}

// NewVerifyCmd exchanges a sign-in token for a session token.
func NewVerifyCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Exchange a sign-in token for a session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Token string `json:"token"`
				User  struct {
					Email string `json:"email"`
				} `json:"user"`
			}
			endpoint := opts.API + "/api/auth/verify?token=" + url.QueryEscape(strings.TrimSpace(args[0]))
			if err := call(cmd, http.MethodGet, endpoint, nil, &resp); err != nil {
				return fmt.Errorf("verify token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", resp.User.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "export ECOLIFE_TOKEN=%s\n", resp.Token)
			return nil
		},
	}
}

func call(cmd *cobra.Command, method, endpoint string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(cmd.Context(), method, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("server said: %s", e.Error)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
