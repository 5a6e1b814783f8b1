// Command strata-server exposes cohort management and comparison over HTTP.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	"github.com/klejdi94/strata/api"
	"github.com/klejdi94/strata/cohort"
	"github.com/klejdi94/strata/cohort/s3blob"
	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/ingest"
	"github.com/klejdi94/strata/middleware"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	storeKind := flag.String("store", "memory", "Store: memory, file, postgres, redis, s3")
	dir := flag.String("dir", "strata-data", "Data directory when store=file")
	dsn := flag.String("dsn", "", "PostgreSQL DSN when store=postgres (or STRATA_DSN env)")
	pgTable := flag.String("table", "cohort_kv", "Postgres table name when store=postgres")
	redisAddr := flag.String("redis", "", "Redis address when store=redis (e.g. localhost:6379, or STRATA_REDIS env)")
	redisPrefix := flag.String("redis-prefix", "strata", "Redis key prefix when store=redis")
	bucket := flag.String("bucket", "", "S3 bucket when store=s3 (or STRATA_BUCKET env)")
	s3Prefix := flag.String("s3-prefix", "strata", "S3 key prefix when store=s3")
	usersCSV := flag.String("users", "", "User-record CSV to load at startup")
	verbose := flag.Bool("verbose", false, "Log every KV operation")
	cacheTTL := flag.Duration("cache", 0, "Cache KV reads for this duration (0 = off)")
	flag.Parse()

	if v := os.Getenv("STRATA_DSN"); v != "" && *dsn == "" {
		*dsn = v
	}
	if v := os.Getenv("STRATA_REDIS"); v != "" && *redisAddr == "" {
		*redisAddr = v
	}
	if v := os.Getenv("STRATA_BUCKET"); v != "" && *bucket == "" {
		*bucket = v
	}

	var kv cohort.KV
	switch *storeKind {
	case "memory":
		kv = cohort.NewMemoryKV()
	case "file":
		fkv, err := cohort.NewFileKV(*dir)
		if err != nil {
			log.Fatalf("file store: %v", err)
		}
		kv = fkv
	case "postgres":
		if *dsn == "" {
			log.Fatal("postgres store requires -dsn or STRATA_DSN")
		}
		db, err := sql.Open("postgres", *dsn)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()
		pg, err := cohort.NewPostgresKV(db, *pgTable, true)
		if err != nil {
			log.Fatalf("postgres store: %v", err)
		}
		kv = pg
	case "redis":
		if *redisAddr == "" {
			log.Fatal("redis store requires -redis or STRATA_REDIS")
		}
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		kv = cohort.NewRedisKV(rdb, *redisPrefix)
	case "s3":
		if *bucket == "" {
			log.Fatal("s3 store requires -bucket or STRATA_BUCKET")
		}
		blob, err := s3blob.NewFromConfig(context.Background(), *bucket, *s3Prefix)
		if err != nil {
			log.Fatalf("s3 store: %v", err)
		}
		kv = cohort.NewBlobKV(blob, "")
	default:
		log.Fatalf("unknown store: %s", *storeKind)
	}

	var mws []middleware.Middleware
	if *verbose {
		mws = append(mws, middleware.Logging(log.Printf))
	}
	if *cacheTTL > 0 {
		mws = append(mws, middleware.Caching(*cacheTTL))
	}
	kv = middleware.Chain(kv, mws...)

	var users []core.UserRecord
	if *usersCSV != "" {
		var err error
		users, err = loadUsers(*usersCSV)
		if err != nil {
			log.Fatalf("load users: %v", err)
		}
		log.Printf("loaded %d users from %s", len(users), *usersCSV)
	}

	srv := api.NewServer(cohort.NewStore(kv), users, *addr)
	log.Printf("strata server listening on %s (store=%s)", *addr, *storeKind)
	log.Fatal(srv.ListenAndServe())
}

func loadUsers(path string) ([]core.UserRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	start := time.Now()
	users, err := ingest.ReadUsers(f)
	if err != nil {
		return nil, err
	}
	log.Printf("parsed %s in %s", path, time.Since(start).Round(time.Millisecond))
	return users, nil
}
