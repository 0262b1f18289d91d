package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"vision-pilot/infrastructure/storage"
	"vision-pilot/internal"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/audit", "Path to the audit badger DB")
	prefix := flag.String("prefix", storage.PrefixAudit, "Prefix to scan (audit:decision: or audit:analysis:)")
	limit := flag.Int("limit", 50, "Maximum number of records, newest first")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	repo := storage.NewAuditRepository(db, logs.GetLoggerFromString("ERROR"), 0)
	records, err := repo.ListRecent(*prefix, *limit)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Timestamp", "Kind", "Entity ID", "Detail", "Key"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, record := range records {
		row := internal.ToInspectRow(record)
		table.Append([]string{row.Timestamp, row.Kind, row.EntityID, row.Detail, row.Key})
	}
	table.Render()
	fmt.Printf("\n%d record(s) under %q\n", len(records), *prefix)
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		// A crashed pilot leaves a value log to truncate, which needs a write open first
		if strings.Contains(err.Error(), "Log truncate required") {
			repaired, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil).WithBypassLockGuard(true))
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			_ = repaired.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
