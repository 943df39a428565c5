package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/mindthegap/internal/domain/cache"
	"github.com/okian/mindthegap/internal/domain/chart"
	"github.com/okian/mindthegap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func bundle(year int) chart.Bundle {
	return chart.Bundle{Filter: model.NewFilterState(year, year, nil)}
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryCache", t, func() {
		Convey("When created with default options", func() {
			c := cache.NewInMemoryCache()

			Convey("Then it is empty", func() {
				So(c, ShouldNotBeNil)
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get(ctx, "missing")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a bundle is stored", func() {
			c := cache.NewInMemoryCache()
			c.Put(ctx, "1900-1900|", bundle(1900))

			Convey("Then it is returned for the same key", func() {
				b, ok := c.Get(ctx, "1900-1900|")
				So(ok, ShouldBeTrue)
				So(b.Filter.YearMin, ShouldEqual, 1900)
				So(c.Size(), ShouldEqual, 1)
			})

			Convey("And the key is stored again", func() {
				c.Put(ctx, "1900-1900|", bundle(1904))

				Convey("Then the entry is replaced, not duplicated", func() {
					b, _ := c.Get(ctx, "1900-1900|")
					So(b.Filter.YearMin, ShouldEqual, 1904)
					So(c.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When the cache is full", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(3))
			for i := 0; i < 5; i++ {
				c.Put(ctx, fmt.Sprintf("k%d", i), bundle(1900+i))
			}

			Convey("Then the oldest entries are evicted first", func() {
				So(c.Size(), ShouldEqual, 3)
				for _, k := range []string{"k0", "k1"} {
					_, ok := c.Get(ctx, k)
					So(ok, ShouldBeFalse)
				}
				for _, k := range []string{"k2", "k3", "k4"} {
					_, ok := c.Get(ctx, k)
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When the cache is disabled", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(0))
			c.Put(ctx, "k", bundle(1900))

			Convey("Then nothing is kept", func() {
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get(ctx, "k")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When used concurrently", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(50))
			var wg sync.WaitGroup
			for w := 0; w < 8; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						key := fmt.Sprintf("w%d-%d", w, i)
						c.Put(ctx, key, bundle(i))
						c.Get(ctx, key)
					}
				}(w)
			}
			wg.Wait()

			Convey("Then the bound holds", func() {
				So(c.Size(), ShouldEqual, 50)
			})
		})
	})
}
