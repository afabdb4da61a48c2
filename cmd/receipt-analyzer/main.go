package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/McKlay/receipt-data-extractor/internal/api"
	"github.com/McKlay/receipt-data-extractor/internal/auth"
	"github.com/McKlay/receipt-data-extractor/internal/export"
	"github.com/McKlay/receipt-data-extractor/internal/extraction"
	"github.com/McKlay/receipt-data-extractor/internal/receipt"
)

func main() {
	// Local .env is optional.
	godotenv.Load()

	rootFlags := ff.NewFlagSet("receipt-analyzer")
	var (
		apiURL   = rootFlags.StringLong("api", "http://localhost:8000", "Receipt service base URL")
		keystore = rootFlags.StringLong("keystore", "receipt-analyzer.db", "Credential keystore file path")
		token    = rootFlags.StringLong("token", "", "Bearer token (or set RECEIPT_ANALYZER_TOKEN env var)")
	)

	app := &app{
		apiURL:       apiURL,
		keystorePath: keystore,
		token:        token,
	}

	loginCmd := &ff.Command{
		Name:      "login",
		Usage:     "receipt-analyzer login <token>",
		ShortHelp: "Store a bearer token issued by the identity provider",
		Flags:     ff.NewFlagSet("login").SetParent(rootFlags),
		Exec:      app.login,
	}

	logoutCmd := &ff.Command{
		Name:      "logout",
		Usage:     "receipt-analyzer logout",
		ShortHelp: "Clear the stored bearer token",
		Flags:     ff.NewFlagSet("logout").SetParent(rootFlags),
		Exec:      app.logout,
	}

	listFlags := ff.NewFlagSet("list").SetParent(rootFlags)
	app.merchant = listFlags.StringLong("merchant", "", "Filter by merchant substring (case-insensitive)")
	app.date = listFlags.StringLong("date", "", "Filter by exact date (YYYY-MM-DD)")
	app.sortField = listFlags.StringLong("sort", "date", "Sort field: date, merchant, or total")
	app.sortOrder = listFlags.StringLong("order", "desc", "Sort order: asc or desc")
	listCmd := &ff.Command{
		Name:      "list",
		Usage:     "receipt-analyzer list [flags]",
		ShortHelp: "List receipts with filter, sort, and summaries",
		Flags:     listFlags,
		Exec:      app.list,
	}

	exportFlags := ff.NewFlagSet("export").SetParent(listFlags)
	app.exportDir = exportFlags.StringLong("out", ".", "Directory to write the CSV artifact into")
	exportCmd := &ff.Command{
		Name:      "export",
		Usage:     "receipt-analyzer export [flags]",
		ShortHelp: "Export the filtered view as a CSV file",
		Flags:     exportFlags,
		Exec:      app.export,
	}

	uploadFlags := ff.NewFlagSet("upload").SetParent(rootFlags)
	uploadCmd := &ff.Command{
		Name:      "upload",
		Usage:     "receipt-analyzer upload <file>",
		ShortHelp: "Upload a receipt image/PDF and show the extracted data",
		Flags:     uploadFlags,
		Exec:      app.upload,
	}

	deleteFlags := ff.NewFlagSet("delete").SetParent(rootFlags)
	app.assumeYes = deleteFlags.BoolLong("yes", "Skip the deletion confirmation prompt")
	deleteCmd := &ff.Command{
		Name:      "delete",
		Usage:     "receipt-analyzer delete [--yes] <id>",
		ShortHelp: "Delete a receipt by id",
		Flags:     deleteFlags,
		Exec:      app.delete,
	}

	rootCmd := &ff.Command{
		Name:  "receipt-analyzer",
		Usage: "receipt-analyzer [flags] <command>",
		Flags: rootFlags,
		Subcommands: []*ff.Command{
			loginCmd, logoutCmd, listCmd, exportCmd, uploadCmd, deleteCmd,
		},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}

	err := rootCmd.ParseAndRun(context.Background(), os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_ANALYZER"),
	)
	switch {
	case errors.Is(err, ff.ErrHelp):
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(rootCmd))
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the parsed flags and wires the core components per command.
type app struct {
	apiURL       *string
	keystorePath *string
	token        *string

	merchant  *string
	date      *string
	sortField *string
	sortOrder *string
	exportDir *string
	assumeYes *bool
}

// tokens resolves the credential source: an explicit --token (or env var)
// wins over the keystore. The returned close func is a no-op for static
// tokens.
func (a *app) tokens() (auth.TokenSource, func(), error) {
	if *a.token != "" {
		return auth.StaticToken(*a.token), func() {}, nil
	}
	ks, err := auth.NewKeystore(*a.keystorePath)
	if err != nil {
		return nil, nil, err
	}
	return ks, func() { ks.Close() }, nil
}

func (a *app) store(confirm receipt.Confirmer) (*receipt.Store, func(), error) {
	tokens, closeTokens, err := a.tokens()
	if err != nil {
		return nil, nil, err
	}
	client := api.NewClient(*a.apiURL)
	return receipt.NewStore(client, tokens, confirm), closeTokens, nil
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: receipt-analyzer login <token>")
	}
	ks, err := auth.NewKeystore(*a.keystorePath)
	if err != nil {
		return err
	}
	defer ks.Close()

	if err := ks.SaveToken(args[0]); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	fmt.Println("Token stored.")
	return nil
}

func (a *app) logout(ctx context.Context, args []string) error {
	ks, err := auth.NewKeystore(*a.keystorePath)
	if err != nil {
		return err
	}
	defer ks.Close()

	if err := ks.ClearToken(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	fmt.Println("Token cleared.")
	return nil
}

// view loads the store and derives the filtered, ordered view from the
// current flags. Full and filtered summaries are computed independently.
func (a *app) view(ctx context.Context) ([]receipt.Receipt, receipt.Summary, receipt.Summary, error) {
	store, closeStore, err := a.store(denyAll{})
	if err != nil {
		return nil, receipt.Summary{}, receipt.Summary{}, err
	}
	defer closeStore()

	if err := store.Load(ctx); err != nil {
		return nil, receipt.Summary{}, receipt.Summary{}, err
	}

	filter := receipt.FilterCriteria{Merchant: *a.merchant, Date: *a.date}
	spec := receipt.SortSpec{
		Field: receipt.SortField(*a.sortField),
		Order: receipt.SortOrder(*a.sortOrder),
	}
	filtered := receipt.Query(store.Receipts(), filter, spec)
	return filtered, store.Summary(), receipt.Summarize(filtered), nil
}

func (a *app) list(ctx context.Context, args []string) error {
	filtered, full, filteredSummary, err := a.view(ctx)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	for _, r := range filtered {
		fmt.Fprintf(w, "%s  %s  %-24s  $%s  (%d items)\n",
			r.ID, r.Date, r.Merchant, r.Total.StringFixed(2), len(r.Items))
	}
	fmt.Fprintf(w, "\nAll receipts: %d totaling $%s\n", full.Count, full.Total.StringFixed(2))
	fmt.Fprintf(w, "Shown:        %d totaling $%s\n", filteredSummary.Count, filteredSummary.Total.StringFixed(2))
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	filtered, _, _, err := a.view(ctx)
	if err != nil {
		return err
	}

	path, err := export.WriteFile(*a.exportDir, filtered, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d receipts to %s\n", len(filtered), path)
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: receipt-analyzer upload <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	tokens, closeTokens, err := a.tokens()
	if err != nil {
		return err
	}
	defer closeTokens()

	session := extraction.NewSession(api.NewClient(*a.apiURL), tokens)
	file := extraction.File{
		Name:        filepath.Base(args[0]),
		ContentType: contentTypeFor(args[0]),
		Data:        data,
	}
	if err := session.SelectFile(file); err != nil {
		return err
	}

	result, err := session.Submit(ctx)
	if err != nil {
		return err
	}

	view := result.View()
	fmt.Printf("Merchant: %s\n", view.Merchant)
	fmt.Printf("Date:     %s\n", view.Date)
	fmt.Printf("Total:    %s\n", view.Total)
	fmt.Printf("Items:    %d\n", len(view.Items))
	for _, item := range view.Items {
		fmt.Printf("  %dx %s ($%s)\n", item.Quantity, item.Name, item.Price)
	}
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: receipt-analyzer delete [--yes] <id>")
	}

	var confirm receipt.Confirmer = promptConfirmer{}
	if *a.assumeYes {
		confirm = receipt.ConfirmFunc(func(string) bool { return true })
	}

	store, closeStore, err := a.store(confirm)
	if err != nil {
		return err
	}
	defer closeStore()

	// Load first so the incremental summary update has a collection to apply
	// to; the delete itself is remote either way.
	if err := store.Load(ctx); err != nil {
		return err
	}
	if err := store.Remove(ctx, args[0]); err != nil {
		if errors.Is(err, receipt.ErrRemoveDeclined) {
			fmt.Println("Aborted.")
			return nil
		}
		return err
	}

	summary := store.Summary()
	fmt.Printf("Deleted. %d receipts remain totaling $%s\n", summary.Count, summary.Total.StringFixed(2))
	return nil
}

// promptConfirmer asks y/N on the terminal.
type promptConfirmer struct{}

func (promptConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// denyAll guards commands that never delete.
type denyAll struct{}

func (denyAll) Confirm(string) bool { return false }

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}
