package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "walletledger-cli",
		Short:         "Walletledger CLI tool",
		Long:          `A command line interface for operating the wallet ledger and its API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Walletledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(consistencyCmd(), reconcileCmd())

	rootCmd.AddCommand(
		ledgerCmd,
		reportsCmd(),
		walletBalanceCmd(),
		chargesCmd(),
		dbCmd(),
	)

	return rootCmd
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := apiRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status != http.StatusOK {
				fmt.Fprintf(out, "Consistency check FAILED (Status: %d)\nResponse: %s\n", status, truncate(string(body), 2000))
				return fmt.Errorf("ledger is not consistent")
			}

			var result struct {
				Consistent  bool   `json:"consistent"`
				TotalDebit  string `json:"total_debit"`
				TotalCredit string `json:"total_credit"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Fprintf(out, "Consistency check PASSED\n")
			fmt.Fprintf(out, "Consistent: %v\n", result.Consistent)
			fmt.Fprintf(out, "Total debit: %s\nTotal credit: %s\n", result.TotalDebit, result.TotalCredit)
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Post journal entries for completed wallet transactions in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := json.Marshal(map[string]string{"from": from, "to": to})
			if err != nil {
				return err
			}

			status, body, err := apiRequest(http.MethodPost, "/api/v1/maintenance/wallet-reconciliation", payload)
			if err != nil {
				return err
			}
			if err := printBody(cmd.OutOrStdout(), status, body); err != nil {
				return err
			}
			if status == http.StatusAccepted {
				fmt.Fprintln(cmd.ErrOrStderr(), "run was interrupted; the result above is partial")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start of the range (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "End of the range (YYYY-MM-DD or RFC3339)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Accounting reports",
	}

	var from, to, asOf, pdfOut string

	trialBalance := &cobra.Command{
		Use:   "trial-balance",
		Short: "Per-account debit and credit totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, "/api/v1/reports/trial-balance", rangeQuery(from, to))
		},
	}

	balanceSheet := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Assets, liabilities and equity as of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if asOf != "" {
				q.Set("as_of", asOf)
			}
			return getAndPrint(cmd, "/api/v1/reports/balance-sheet", q)
		},
	}
	balanceSheet.Flags().StringVar(&asOf, "as-of", "", "Report date (defaults to now)")

	profit := &cobra.Command{
		Use:   "profit",
		Short: "Income minus expenses for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, "/api/v1/reports/profit", rangeQuery(from, to))
		},
	}

	statement := &cobra.Command{
		Use:   "statement <account-code>",
		Short: "Account statement with running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/reports/accounts/" + url.PathEscape(args[0]) + "/statement"
			if pdfOut == "" {
				return getAndPrint(cmd, path, rangeQuery(from, to))
			}

			status, body, err := apiRequest(http.MethodGet, path+".pdf?"+rangeQuery(from, to).Encode(), nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return printBody(cmd.OutOrStdout(), status, body)
			}
			if err := os.WriteFile(pdfOut, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", pdfOut, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", pdfOut, len(body))
			return nil
		},
	}
	statement.Flags().StringVar(&pdfOut, "pdf", "", "Write the statement as PDF to this file")

	for _, c := range []*cobra.Command{trialBalance, profit, statement} {
		c.Flags().StringVar(&from, "from", "", "Start of the period (YYYY-MM-DD or RFC3339)")
		c.Flags().StringVar(&to, "to", "", "End of the period (YYYY-MM-DD or RFC3339)")
		_ = c.MarkFlagRequired("from")
		_ = c.MarkFlagRequired("to")
	}

	cmd.AddCommand(trialBalance, balanceSheet, profit, statement)
	return cmd
}

func walletBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wallet-balance <wallet-id>",
		Short: "Net credit minus debit on the wallet liability account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, "/api/v1/wallets/"+url.PathEscape(args[0])+"/balance", nil)
		},
	}
}

func chargesCmd() *cobra.Command {
	var amount, channel string

	cmd := &cobra.Command{
		Use:       "charges <deposit|withdrawal>",
		Short:     "Preview the charges for a wallet transaction",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"deposit", "withdrawal"},
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("amount", amount)
			q.Set("channel", strings.ToUpper(channel))
			return getAndPrint(cmd, "/api/v1/charges/"+url.PathEscape(args[0]), q)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Transaction amount")
	cmd.Flags().StringVar(&channel, "channel", "", "Payment channel (MTN, AIRTEL, ...)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("channel")

	return cmd
}

func rangeQuery(from, to string) url.Values {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	return q
}

func getAndPrint(cmd *cobra.Command, path string, query url.Values) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	status, body, err := apiRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return printBody(cmd.OutOrStdout(), status, body)
}

func apiRequest(method, path string, payload []byte) (int, []byte, error) {
	client := &http.Client{Timeout: timeout}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, strings.TrimRight(baseURL, "/")+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("error reading response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// printBody pretty-prints a JSON response and turns error statuses into errors.
func printBody(w io.Writer, status int, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Fprintln(w, truncate(string(body), 2000))
	} else {
		printJSON(w, v)
	}

	if status >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status %d", status)
	}
	return nil
}

func printJSON(w io.Writer, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%v\n", v)
		return
	}
	fmt.Fprintln(w, string(out))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
