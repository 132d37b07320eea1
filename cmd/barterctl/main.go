// barterctl is a small operator CLI for the book barter ledger service.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bookbarter/pkg/domain"
)

var serverURL string

func main() {
	root := &cobra.Command{
		Use:           "barterctl",
		Short:         "Operate the book barter lending ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the barter service")
	root.AddCommand(newRegisterCmd(), newTrackCmd(), newReturnCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRegisterCmd() *cobra.Command {
	var (
		lenderPhone, lenderName     string
		borrowerPhone, borrowerName string
		title, author, deposit      string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new lending",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"lenderPhone":   lenderPhone,
				"lenderName":    lenderName,
				"borrowerPhone": borrowerPhone,
				"borrowerName":  borrowerName,
				"bookTitle":     title,
				"author":        author,
				"deposit":       deposit,
			}
			var rec domain.LoanRecord
			if err := call(http.MethodPost, "/loans", payload, &rec); err != nil {
				return err
			}
			fmt.Printf("Registered loan %s: %q lent to %s on %s\n", rec.ID, rec.BookTitle, rec.BorrowerName, rec.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&lenderPhone, "lender-phone", "", "lender phone (10 digits)")
	cmd.Flags().StringVar(&lenderName, "lender-name", "", "lender name")
	cmd.Flags().StringVar(&borrowerPhone, "borrower-phone", "", "borrower phone (10 digits)")
	cmd.Flags().StringVar(&borrowerName, "borrower-name", "", "borrower name")
	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "author name")
	cmd.Flags().StringVar(&deposit, "deposit", "", "deposit collected, whole number")
	return cmd
}

func newTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <phone>",
		Short: "Show outstanding loans for a phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view domain.MemberView
			path := "/members/" + url.PathEscape(args[0]) + "/loans"
			if err := call(http.MethodGet, path, nil, &view); err != nil {
				return err
			}
			fmt.Printf("Welcome %s! (lent %d times, borrowed %d times)\n\n", view.Name, view.LentCount, view.BorrowedCount)
			fmt.Println("Books you've lent and are yet to receive:")
			if len(view.ActiveLent) == 0 {
				fmt.Println("  none")
			}
			for _, l := range view.ActiveLent {
				fmt.Printf("  [%s] %q to %s (%s), deposit %d, %s\n", l.ID, l.BookTitle, l.BorrowerName, l.BorrowerPhone, l.Deposit, l.DisplayDate)
			}
			fmt.Println("\nBooks you've borrowed and are yet to return:")
			if len(view.ActiveBorrowed) == 0 {
				fmt.Println("  none")
			}
			for _, l := range view.ActiveBorrowed {
				fmt.Printf("  [%s] %q from %s (%s), deposit %d, %s\n", l.ID, l.BookTitle, l.LenderName, l.LenderPhone, l.Deposit, l.DisplayDate)
			}
			return nil
		},
	}
}

func newReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <loan-id>",
		Short: "Mark a loan as returned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res map[string]string
			path := "/loans/" + url.PathEscape(args[0]) + "/return"
			if err := call(http.MethodPost, path, nil, &res); err != nil {
				return err
			}
			fmt.Printf("Loan %s marked returned.\n", args[0])
			return nil
		},
	}
}

// call performs one JSON round trip against the service and decodes the
// response into out. API error bodies surface as plain error messages.
func call(method, path string, payload any, out any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, serverURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (%s)", apiErr.Error, apiErr.Code)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
