// Command snowflake is a ZooKeeper-coordinated snowflake ID generator, an
// alternative to UUIDs for deployments that can afford central worker-ID
// assignment. Each node registers under /snowflake/<service>/<port>, recovers
// its worker ID across restarts (from ZooKeeper or a local cache file), and
// refuses to generate after a large clock rollback.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-zookeeper/zk"

	"github.com/lab2439/uuid"
)

const (
	epoch int64 = 1672531200000 // 2023-01-01 00:00:00 UTC

	workerIDBits = 10
	sequenceBits = 12

	workerIDShift  = sequenceBits
	timestampShift = sequenceBits + workerIDBits
	sequenceMask   = -1 ^ (-1 << sequenceBits)

	zkRoot = "/snowflake"
)

// Node holds generator state plus the ZooKeeper registration.
type Node struct {
	mu       sync.Mutex
	lastTime int64
	sequence int64
	workerID int64

	conn    *zk.Conn
	service string
	port    int
}

// nodeInfo is what a node persists in ZooKeeper and its local cache file.
type nodeInfo struct {
	WorkerID   int64 `json:"worker_id"`
	LastTime   int64 `json:"last_time"`
	CreateTime int64 `json:"create_time"`
}

// NewNode connects to ZooKeeper and registers (or recovers) this worker.
func NewNode(servers []string, service string, port int) (*Node, error) {
	conn, _, err := zk.Connect(servers, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to zookeeper: %w", err)
	}

	n := &Node{conn: conn, service: service, port: port}
	if err := n.register(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Printf("snowflake node ready, workerID=%d", n.workerID)
	go n.heartbeat()
	return n, nil
}

func (n *Node) nodePath() string {
	return fmt.Sprintf("%s/%s/%d", zkRoot, n.service, n.port)
}

// register recovers the worker ID from ZooKeeper or the local cache, or
// assigns one, then writes the node info back to both.
func (n *Node) register() error {
	n.ensurePath(zkRoot)
	n.ensurePath(fmt.Sprintf("%s/%s", zkRoot, n.service))

	path := n.nodePath()
	now := time.Now().UnixMilli()

	var info nodeInfo
	exists, _, err := n.conn.Exists(path)
	if err != nil {
		return fmt.Errorf("check node %s: %w", path, err)
	}

	switch {
	case exists:
		data, _, err := n.conn.Get(path)
		if err != nil {
			return fmt.Errorf("read node %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &info); err != nil {
			return fmt.Errorf("decode node %s: %w", path, err)
		}
		if now < info.LastTime {
			return fmt.Errorf("clock moved backwards: %d < %d", now, info.LastTime)
		}
		log.Printf("recovered workerID %d from zookeeper", info.WorkerID)

	default:
		if cached, err := n.loadCache(); err == nil {
			if now < cached.LastTime {
				return fmt.Errorf("clock moved backwards: %d < %d", now, cached.LastTime)
			}
			info = cached
			log.Printf("recovered workerID %d from local cache", info.WorkerID)
		} else {
			info = nodeInfo{WorkerID: int64(n.port % (1 << workerIDBits)), CreateTime: now}
		}
	}

	info.LastTime = now
	n.workerID = info.WorkerID

	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	if exists {
		_, err = n.conn.Set(path, data, -1)
	} else {
		_, err = n.conn.Create(path, data, 0, zk.WorldACL(zk.PermAll))
	}
	if err != nil {
		return fmt.Errorf("register node %s: %w", path, err)
	}

	n.saveCache(info)
	return nil
}

// NextID generates the next snowflake ID:
// | 1 bit 0 | 41 bit timestamp | 10 bit worker | 12 bit sequence |
func (n *Node) NextID() (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := time.Now().UnixMilli()

	if now < n.lastTime {
		offset := n.lastTime - now
		if offset > 5 {
			return 0, fmt.Errorf("clock moved backwards %dms, refusing to generate", offset)
		}
		// small rollback: wait it out
		time.Sleep(time.Duration(offset) * time.Millisecond)
		now = time.Now().UnixMilli()
		if now < n.lastTime {
			return 0, fmt.Errorf("clock still behind after waiting")
		}
	}

	if now == n.lastTime {
		n.sequence = (n.sequence + 1) & sequenceMask
		if n.sequence == 0 {
			// per-millisecond capacity exhausted, spin to the next tick
			for now <= n.lastTime {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		n.sequence = 0
	}

	n.lastTime = now

	return ((now - epoch) << timestampShift) |
		(n.workerID << workerIDShift) |
		n.sequence, nil
}

// heartbeat refreshes the node info in ZooKeeper and the cache file so a
// restart can detect clock rollback against the last known timestamp.
func (n *Node) heartbeat() {
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now().UnixMilli()
		if now < n.lastTime {
			log.Printf("clock rollback detected during heartbeat: %d < %d", now, n.lastTime)
			continue
		}

		info := nodeInfo{WorkerID: n.workerID, LastTime: now}
		data, _ := json.Marshal(info)

		// zookeeper may be briefly unavailable; the next tick retries
		n.conn.Set(n.nodePath(), data, -1)
		n.saveCache(info)
	}
}

func (n *Node) ensurePath(path string) {
	exists, _, _ := n.conn.Exists(path)
	if !exists {
		n.conn.Create(path, nil, 0, zk.WorldACL(zk.PermAll))
	}
}

func (n *Node) cacheFile() string {
	return fmt.Sprintf(".snowflake_cache_%d", n.port)
}

func (n *Node) saveCache(info nodeInfo) {
	data, _ := json.Marshal(info)
	os.WriteFile(n.cacheFile(), data, 0644)
}

func (n *Node) loadCache() (nodeInfo, error) {
	data, err := os.ReadFile(n.cacheFile())
	if err != nil {
		return nodeInfo{}, err
	}
	var info nodeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nodeInfo{}, err
	}
	return info, nil
}

func main() {
	var (
		servers = flag.String("zk", "127.0.0.1:2181", "ZooKeeper server")
		service = flag.String("service", "order-service", "service name")
		port    = flag.Int("port", 8080, "port used to derive node identity")
		total   = flag.Int("n", 1000, "IDs to generate")
	)
	flag.Parse()

	node, err := NewNode([]string{*servers}, *service, *port)
	if err != nil {
		log.Fatalf("init snowflake node: %v", err)
	}

	log.Println("generating IDs...")

	for i := 0; i < *total; i++ {
		id, err := node.NextID()
		if err != nil {
			log.Println(err)
			continue
		}
		// print the snowflake ID next to a v7 UUID made at the same instant;
		// both sort by creation time
		u := uuid.Must(uuid.NewV7())
		fmt.Printf("%d\t%s\n", id, u)
	}
}
