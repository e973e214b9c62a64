// Command zentaskd runs a local ZenTask backend: the same wire protocol the
// hosted API speaks, backed by a sqlite file. Useful for developing the
// client without network access.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/robfig/cron/v3"

	"zentask/internal/server"
)

func main() {
	var (
		addr   = flag.String("addr", ":8080", "listen address")
		dbPath = flag.String("db", "zentaskd.db", "path to the sqlite database")
	)
	flag.Parse()

	db, err := server.OpenStorage(*dbPath)
	if err != nil {
		log.Fatalf("opening storage: %v", err)
	}

	// Expired OTPs and tokens are swept every hour
	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		if err := server.SweepExpired(db); err != nil {
			log.Printf("sweeping expired records: %v", err)
		}
	}); err != nil {
		log.Fatalf("scheduling sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	r := server.NewRouter(server.NewServer(db))
	log.Printf("zentaskd listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}
