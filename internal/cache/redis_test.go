package cache

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/retailpos/internal/model"
)

// fakeRedis answers the handful of RESP commands the catalog cache sends.
type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	lastTTL string
}

func startFakeRedis(t *testing.T) (*fakeRedis, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	f := &fakeRedis{data: map[string]string{}}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return f, ln.Addr().String()
}

func (f *fakeRedis) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		io.WriteString(conn, f.exec(args))
	}
}

func (f *fakeRedis) exec(args []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch strings.ToUpper(args[0]) {
	case "PING":
		return "+PONG\r\n"
	case "GET":
		v, ok := f.data[args[1]]
		if !ok {
			return "$-1\r\n"
		}
		return fmt.Sprintf("$%d\r\n%s\r\n", len(v), v)
	case "SET":
		f.data[args[1]] = args[2]
		if len(args) > 4 {
			f.lastTTL = args[3] + " " + args[4]
		}
		return "+OK\r\n"
	case "DEL":
		n := 0
		for _, k := range args[1:] {
			if _, ok := f.data[k]; ok {
				delete(f.data, k)
				n++
			}
		}
		return fmt.Sprintf(":%d\r\n", n)
	default:
		return "-ERR unknown command\r\n"
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[1:]))
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		header, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimSpace(header[1:]))
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func TestRedisCatalog(t *testing.T) {
	fake, addr := startFakeRedis(t)
	ctx := context.Background()

	client, err := Connect(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	c := NewRedisCatalog(client, 90*time.Second)

	_, hit, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	items := []model.InventoryItem{{ID: "p1", Name: "Latte", Price: 4.5, Quantity: 3}}
	require.NoError(t, c.Set(ctx, items))
	assert.Equal(t, "ex 90", strings.ToLower(fake.lastTTL))

	got, hit, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, items, got)

	require.NoError(t, c.Invalidate(ctx))
	_, hit, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCatalog_CorruptEntry(t *testing.T) {
	fake, addr := startFakeRedis(t)
	fake.data[catalogKey] = "not json"

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	_, hit, err := NewRedisCatalog(client, time.Minute).Get(context.Background())
	require.Error(t, err)
	assert.False(t, hit)
}

func TestConnect_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Connect(context.Background(), addr)
	assert.Error(t, err)
}
