package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"

	"duospace/domain"
)

// Offline inspector for the shared store. Opens Badger read-only so it
// can run next to a live client holding the lock.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	prefix := flag.String("prefix", "space:id:", "Prefix to scan (space:id:, msg:, user:id:, react:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Detail"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append([]string{key, describe(key, v)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}

	table.Render()
}

func describe(key string, value []byte) string {
	switch {
	case strings.HasPrefix(key, "space:id:"):
		var space domain.Space
		if err := json.Unmarshal(value, &space); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%q code=%s members=%v v%d", space.Name, space.Code, space.Members, space.Version)
	case strings.HasPrefix(key, "msg:"):
		var message domain.Message
		if err := json.Unmarshal(value, &message); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("[%s] %s: %s", message.Type, message.SenderID, message.Content)
	case strings.HasPrefix(key, "user:id:"):
		var user domain.User
		if err := json.Unmarshal(value, &user); err != nil {
			return err.Error()
		}
		return user.Username
	default:
		return string(value)
	}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	return badger.Open(opts)
}
