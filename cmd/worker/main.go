package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classtrack/internal/attendance"
	"classtrack/internal/config"
	"classtrack/internal/metrics"
	"classtrack/internal/queue"
	"classtrack/internal/store"
)

// Worker consumes attendance-save events and appends audit rows. The audit
// table is a trail, never a source of truth; counts stay derivable from the
// stored marks.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "classtrack:attendance")
	}

	repo := attendance.NewRepository(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("audit worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.MsgAttendanceSaved {
			continue
		}

		id := string(msg.Body)
		sess, err := repo.SessionByID(ctx, id)
		if err != nil {
			log.Printf("fetch session %s failed: %v", id, err)
			continue
		}
		if sess == nil {
			log.Printf("session %s gone before audit, skipping", id)
			continue
		}

		if err := repo.InsertAudit(ctx, sess.ID, sess.ClassID, sess.Day, len(sess.Marks), "api"); err != nil {
			log.Printf("audit insert for %s failed: %v", id, err)
			continue
		}
		metrics.AuditEvents.Inc()
		log.Printf("audited session %s (%s, %s, %d marks)", sess.ID, sess.ClassID, sess.Day.Format("2006-01-02"), len(sess.Marks))

		time.Sleep(10 * time.Millisecond)
	}

	log.Println("audit worker stopped")
}
