// Command segment is a MySQL-backed sequential ID allocator, an alternative
// to UUID keys for tables that want compact bigint primary keys. It reserves
// blocks of IDs from a `id_alloc` table and hands them out lock-free until a
// block runs dry, prefetching the next block in the background.
//
// Schema:
//
//	CREATE TABLE id_alloc (
//	    tag     VARCHAR(64) PRIMARY KEY,
//	    max_id  BIGINT NOT NULL,
//	    step    INT NOT NULL
//	);
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/lab2439/uuid"
)

// Block is one reserved range of IDs: (Base, Max], consumed via Cursor.
type Block struct {
	Base   int64
	Max    int64
	Step   int
	Cursor int64 // accessed atomically
}

// Remaining returns how many IDs are left in the block.
func (b *Block) Remaining() int64 {
	return b.Max - atomic.LoadInt64(&b.Cursor)
}

// Allocator hands out IDs for one tag from a current block while prefetching
// the next one once the current block is 80% consumed.
type Allocator struct {
	tag   string
	store *Store

	mu        sync.Mutex
	current   *Block
	next      *Block
	nextReady bool
	loading   int32 // atomic flag for the prefetch goroutine
}

func NewAllocator(tag string, store *Store) (*Allocator, error) {
	block, err := store.ReserveBlock(context.Background(), tag)
	if err != nil {
		return nil, err
	}
	return &Allocator{tag: tag, store: store, current: block}, nil
}

// NextID returns the next ID for this allocator's tag, switching to the
// prefetched block or falling back to a synchronous reservation when the
// current block is exhausted.
func (a *Allocator) NextID() (int64, error) {
	if a.current == nil {
		return 0, errors.New("allocator not initialized")
	}

	if id := atomic.AddInt64(&a.current.Cursor, 1); id <= a.current.Max {
		a.maybePrefetch()
		return id, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// another goroutine may have switched blocks while we waited
	if id := atomic.AddInt64(&a.current.Cursor, 1); id <= a.current.Max {
		return id, nil
	}

	if a.nextReady && a.next != nil {
		a.current = a.next
		a.next = nil
		a.nextReady = false
		return atomic.AddInt64(&a.current.Cursor, 1), nil
	}

	block, err := a.store.ReserveBlock(context.Background(), a.tag)
	if err != nil {
		return 0, err
	}
	a.current = block
	return atomic.AddInt64(&a.current.Cursor, 1), nil
}

// maybePrefetch starts a background reservation once the current block runs
// low. At most one prefetch is in flight per allocator.
func (a *Allocator) maybePrefetch() {
	if a.nextReady || atomic.LoadInt32(&a.loading) == 1 {
		return
	}
	if a.current.Remaining() > int64(a.current.Step/5) {
		return
	}
	if !atomic.CompareAndSwapInt32(&a.loading, 0, 1) {
		return
	}
	go func() {
		defer atomic.StoreInt32(&a.loading, 0)

		block, err := a.store.ReserveBlock(context.Background(), a.tag)
		if err != nil {
			log.Printf("prefetch for %q failed: %v", a.tag, err)
			return
		}

		a.mu.Lock()
		a.next = block
		a.nextReady = true
		a.mu.Unlock()
	}()
}

// Store performs the block reservations against MySQL.
type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return &Store{db: db}, nil
}

// ReserveBlock atomically advances max_id by step for the tag and returns
// the freshly reserved (Base, Max] range.
func (s *Store) ReserveBlock(ctx context.Context, tag string) (*Block, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE id_alloc SET max_id = max_id + step WHERE tag = ?", tag); err != nil {
		return nil, fmt.Errorf("reserve block for %q: %w", tag, err)
	}

	var maxID int64
	var step int
	if err := tx.QueryRowContext(ctx,
		"SELECT max_id, step FROM id_alloc WHERE tag = ?", tag).Scan(&maxID, &step); err != nil {
		return nil, fmt.Errorf("read back block for %q: %w", tag, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Block{
		Base:   maxID - int64(step),
		Max:    maxID,
		Step:   step,
		Cursor: maxID - int64(step),
	}, nil
}

// Server maps tags to allocators. Thread safe.
type Server struct {
	store *Store

	mu         sync.RWMutex
	allocators map[string]*Allocator
}

func NewServer(store *Store) *Server {
	return &Server{store: store, allocators: make(map[string]*Allocator)}
}

func (s *Server) GetID(tag string) (int64, error) {
	s.mu.RLock()
	alloc, ok := s.allocators[tag]
	s.mu.RUnlock()
	if ok {
		return alloc.NextID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if alloc, ok = s.allocators[tag]; ok {
		return alloc.NextID()
	}

	alloc, err := NewAllocator(tag, s.store)
	if err != nil {
		return 0, fmt.Errorf("initialize allocator for %q: %w", tag, err)
	}
	s.allocators[tag] = alloc
	return alloc.NextID()
}

func main() {
	var (
		dsn   = flag.String("dsn", "root:root@tcp(127.0.0.1:3306)/test_db?parseTime=true", "MySQL DSN")
		tag   = flag.String("tag", "order-service", "allocation tag")
		total = flag.Int("n", 5000, "IDs to allocate")
	)
	flag.Parse()

	store, err := NewStore(*dsn)
	if err != nil {
		log.Fatal(err)
	}
	server := NewServer(store)

	// Allocate sequential IDs from MySQL and, for comparison, generate the
	// same number of time-ordered UUIDs locally.
	const workers = 10
	perWorker := *total / workers

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := server.GetID(*tag); err != nil {
					log.Printf("allocation error: %v", err)
				}
			}
		}()
	}
	wg.Wait()
	dbElapsed := time.Since(start)

	gen := uuid.NewGenerator()
	start = time.Now()
	for i := 0; i < *total; i++ {
		if _, err := gen.New(); err != nil {
			log.Fatal(err)
		}
	}
	uuidElapsed := time.Since(start)

	log.Printf("%d sequential IDs from MySQL: %s", *total, dbElapsed)
	log.Printf("%d UUIDv7 locally:            %s", *total, uuidElapsed)
}
