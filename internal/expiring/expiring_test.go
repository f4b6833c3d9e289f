package expiring_test

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Pallinder/go-randomdata"
	"github.com/onelson/omn/internal/expiring"
	. "github.com/onelson/omn/internal/testsupport"
)

func TestTable(t *testing.T) {
	t.Run("prune on timeout", func(t *testing.T) {
		tbl := expiring.New[int, float64]()

		k, timeout := 0, 5*time.Millisecond
		tbl.Store(k, 1.1, timeout)
		time.Sleep(timeout + 5*time.Millisecond)
		if v, found := tbl.Load(k); found {
			t.Errorf("k/v %d/%v should have expired, but was found", k, v)
		}

		k, timeout = -650493712, 20*time.Millisecond
		tbl.Store(k, -1111.2222, timeout)
		time.Sleep(timeout + 5*time.Millisecond)
		if v, found := tbl.Load(k); found {
			t.Errorf("k/v %d/%v should have expired, but was found", k, v)
		}
	})

	t.Run("load before timeout", func(t *testing.T) {
		tbl := expiring.New[string, string]()
		k, v := randomdata.SillyName(), randomdata.Adjective()

		tbl.Store(k, v, 10*time.Second)
		got, found := tbl.Load(k)
		if !found {
			t.Fatalf("failed to find key '%v' well before its expiration", k)
		}
		if got != v {
			t.Error("incorrect value retrieved", ExpectedActual(v, got))
		}
	})

	t.Run("store overwrites and resets the timer", func(t *testing.T) {
		tbl := expiring.New[string, int]()
		k := randomdata.SillyName()

		tbl.Store(k, 1, 15*time.Millisecond)
		tbl.Store(k, 2, 10*time.Second) // overwrite with a much longer ttl

		time.Sleep(30 * time.Millisecond) // longer than the first ttl
		got, found := tbl.Load(k)
		if !found {
			t.Fatal("key expired on the first (replaced) timer")
		}
		if got != 2 {
			t.Error("incorrect value retrieved", ExpectedActual(2, got))
		}
	})

	t.Run("delete", func(t *testing.T) {
		tbl := expiring.New[string, int]()
		k := randomdata.SillyName()

		tbl.Store(k, 7, 10*time.Second)
		if found := tbl.Delete(k); !found {
			t.Fatal("delete failed to find a live key")
		}
		if _, found := tbl.Load(k); found {
			t.Fatal("key survived deletion")
		}
		if found := tbl.Delete(k); found {
			t.Fatal("second delete claims to have found the key")
		}
	})

	t.Run("refresh", func(t *testing.T) {
		tbl := expiring.New[string, int]()
		k := randomdata.SillyName()

		tbl.Store(k, 9, 40*time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		if found := tbl.Refresh(k, 10*time.Second); !found {
			t.Fatal("refresh failed to find a live key")
		}
		time.Sleep(40 * time.Millisecond) // past the original ttl
		if _, found := tbl.Load(k); !found {
			t.Fatal("key expired despite being refreshed")
		}

		if found := tbl.Refresh("never-stored", time.Second); found {
			t.Fatal("refresh claims to have found a key that was never stored")
		}
	})

	// hammer one table from many goroutines to give -race something to chew on
	t.Run("parallel stores", func(t *testing.T) {
		tbl := expiring.New[string, int]()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				k := "key-" + strconv.Itoa(n%10)
				tbl.Store(k, n, 10*time.Second)
				tbl.Load(k)
			}(i)
		}
		wg.Wait()
		if l := tbl.Len(); l != 10 {
			t.Error("unexpected live element count", ExpectedActual(10, l))
		}
	})
}
