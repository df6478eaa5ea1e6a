package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/gstbilling/config"
	"bitbucket.org/mmdatafocus/gstbilling/store"
	"github.com/sirupsen/logrus"
)

// Wipes the local durable store: snapshot, pending queue, users, session.
// The remote live store is untouched. This is the only path that clears
// local data; the engine never does it on its own.
func main() {
	dryRun := flag.Bool("dry-run", true, "Show what would be removed (no writes)")
	confirm := flag.String("confirm", "", "Type RESET to proceed when dry-run=false")
	flag.Parse()

	if !*dryRun && strings.TrimSpace(*confirm) != "RESET" {
		fmt.Fprintln(os.Stderr, "set --confirm=RESET to proceed")
		os.Exit(1)
	}

	kv, err := store.OpenSQLiteKV(config.LocalStorePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open local store: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	st := store.New(kv, logger)

	snap := st.LoadSnapshot()
	pending := st.LoadPendingQueue()
	users := st.LoadUsers()
	if snap == nil {
		fmt.Println("no snapshot stored")
	} else {
		fmt.Printf("snapshot: %d invoices, %d customers, %d products, %d purchases\n",
			len(snap.Invoices), len(snap.Customers), len(snap.Products), len(snap.Purchases))
	}
	fmt.Printf("pending queue: %d entries\n", len(pending))
	fmt.Printf("users: %d\n", len(users))

	if *dryRun {
		fmt.Println("dry run; nothing removed")
		return
	}

	st.ClearAll()
	fmt.Println("local data cleared")
}
