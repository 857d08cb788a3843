package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cashbox-cli",
		Short: "Cash box ledger CLI tool",
		Long:  `A command line interface for interacting with the cash box ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the cash box API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(balancesCmd(), cashboxCmd(), advanceCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balancesCmd() *cobra.Command {
	var employeeID int64

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Balance operations",
	}

	recomputeCmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute cash box balance chains",
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{}
			if employeeID > 0 {
				body["employee_id"] = employeeID
			}

			postJSON("/api/v1/balances/recompute", body)
		},
	}

	recomputeCmd.Flags().Int64Var(&employeeID, "employee", 0, "Recompute a single employee (default: everyone)")

	cmd.AddCommand(recomputeCmd)

	return cmd
}

func cashboxCmd() *cobra.Command {
	var (
		mode string
		file string
	)

	cmd := &cobra.Command{
		Use:   "cashbox",
		Short: "Cash box operations",
	}

	submitCmd := &cobra.Command{
		Use:   "submit <cashbox-id>",
		Short: "Submit a transaction list for reconciliation",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Printf("Invalid cash box ID: %v\n", err)
				os.Exit(1)
			}

			data, err := os.ReadFile(file)
			if err != nil {
				fmt.Printf("Failed to read transactions file: %v\n", err)
				os.Exit(1)
			}

			var transactions []map[string]any
			if err := json.Unmarshal(data, &transactions); err != nil {
				fmt.Printf("Failed to parse transactions file: %v\n", err)
				os.Exit(1)
			}

			postJSON(fmt.Sprintf("/api/v1/cashboxes/%d/transactions", id), map[string]any{
				"mode":         mode,
				"transactions": transactions,
			})
		},
	}

	submitCmd.Flags().StringVar(&mode, "mode", "merge", "Reconciliation mode: merge or replace")
	submitCmd.Flags().StringVar(&file, "file", "", "Path to a JSON file with the transaction rows")
	_ = submitCmd.MarkFlagRequired("file")

	listCmd := &cobra.Command{
		Use:   "list <employee-id>",
		Short: "List an employee's cash boxes",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON(fmt.Sprintf("/api/v1/employees/%s/cashboxes", args[0]))
		},
	}

	cmd.AddCommand(submitCmd, listCmd)

	return cmd
}

func advanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Advance operations",
	}

	attachCmd := &cobra.Command{
		Use:   "attach <advance-id> <cashbox-id>",
		Short: "Attach an advance to a cash box",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			boxID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Printf("Invalid cash box ID: %v\n", err)
				os.Exit(1)
			}

			postJSON(fmt.Sprintf("/api/v1/advances/%s/attach", args[0]), map[string]any{
				"cash_box_id": boxID,
			})
		},
	}

	detachCmd := &cobra.Command{
		Use:   "detach <advance-id>",
		Short: "Detach an advance from its cash box",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON(fmt.Sprintf("/api/v1/advances/%s/detach", args[0]), map[string]any{})
		},
	}

	cmd.AddCommand(attachCmd, detachCmd)

	return cmd
}

func postJSON(path string, body map[string]any) {
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}

	fmt.Println(pretty.String())
}
