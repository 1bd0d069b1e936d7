package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
)

// memHook answers GET and SET from a map so the client never dials.
type memHook struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMemHook() *memHook {
	return &memHook{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (h *memHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("dial disabled in tests")
	}
}

func (h *memHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if h.err != nil {
			cmd.SetErr(h.err)
			return h.err
		}
		args := cmd.Args()
		switch cmd.Name() {
		case "get":
			c := cmd.(*redis.StringCmd)
			v, ok := h.data[fmt.Sprint(args[1])]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case "set":
			k := fmt.Sprint(args[1])
			switch v := args[2].(type) {
			case []byte:
				h.data[k] = string(v)
			default:
				h.data[k] = fmt.Sprint(v)
			}
			if len(args) >= 5 && strings.EqualFold(fmt.Sprint(args[3]), "ex") {
				if secs, ok := args[4].(int64); ok {
					h.ttls[k] = time.Duration(secs) * time.Second
				}
			}
			cmd.(*redis.StatusCmd).SetVal("OK")
		case "ping":
			cmd.(*redis.StatusCmd).SetVal("PONG")
		default:
			err := fmt.Errorf("unexpected command %q", cmd.Name())
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

func (h *memHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newTestCache(t *testing.T, ttl time.Duration) (*GeocodeCache, *memHook) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	hook := newMemHook()
	client.AddHook(hook)
	t.Cleanup(func() { _ = client.Close() })
	return NewGeocodeCache(client, ttl), hook
}

func TestKey_Normalizes(t *testing.T) {
	a := key("  233 Bay State Rd   Boston MA ")
	b := key("233 bay state rd boston ma")
	if a != b {
		t.Fatalf("expected equal keys, got %q and %q", a, b)
	}
	if a != "geocode:233 bay state rd boston ma" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestNewGeocodeCache_DefaultTTL(t *testing.T) {
	c := NewGeocodeCache(nil, 0)
	if c.ttl != defaultGeoTTL {
		t.Fatalf("expected default ttl, got %v", c.ttl)
	}
}

func TestGeocodeCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	loc, ok, err := c.Get(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || loc != nil {
		t.Fatalf("expected a miss, got %+v", loc)
	}
}

func TestGeocodeCache_SetThenGet(t *testing.T) {
	c, hook := newTestCache(t, time.Hour)
	ctx := context.Background()
	want := &domain.Location{
		Type:             "Point",
		Coordinates:      []float64{-71.104, 42.350},
		FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US",
		City:             "Boston",
	}

	if err := c.Set(ctx, "233 Bay State Rd  Boston", want); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := hook.ttls["geocode:233 bay state rd boston"]; got != time.Hour {
		t.Fatalf("expected 1h expiry, got %v", got)
	}

	got, ok, err := c.Get(ctx, "233 BAY STATE RD BOSTON")
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if got.FormattedAddress != want.FormattedAddress || got.City != "Boston" {
		t.Fatalf("unexpected location %+v", got)
	}
	if len(got.Coordinates) != 2 || got.Coordinates[0] != -71.104 || got.Coordinates[1] != 42.350 {
		t.Fatalf("unexpected coordinates %v", got.Coordinates)
	}
}

func TestGeocodeCache_GetCorruptEntry(t *testing.T) {
	c, hook := newTestCache(t, time.Hour)
	hook.data["geocode:boston"] = "{not json"

	if _, _, err := c.Get(context.Background(), "Boston"); err == nil || !strings.Contains(err.Error(), "geocache decode") {
		t.Fatalf("expected a decode error, got %v", err)
	}
}

func TestGeocodeCache_BackendError(t *testing.T) {
	c, hook := newTestCache(t, time.Hour)
	hook.err = errors.New("connection reset")
	ctx := context.Background()

	if _, _, err := c.Get(ctx, "Boston"); err == nil || !strings.Contains(err.Error(), "geocache get") {
		t.Fatalf("expected a wrapped get error, got %v", err)
	}
	if err := c.Set(ctx, "Boston", &domain.Location{}); err == nil {
		t.Fatal("expected set to fail")
	}
	if err := c.Ping(ctx); err == nil {
		t.Fatal("expected ping to fail")
	}
}

func TestGeocodeCache_Ping(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}
