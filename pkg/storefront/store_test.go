package storefront_test

import (
	"sync"
	"testing"
	"time"

	"lyyn/pkg/storefront"

	"github.com/stretchr/testify/assert"
)

func counter(s int, a storefront.Action) int {
	if n, ok := a.(int); ok {
		return s + n
	}
	return s
}

func TestStore_DispatchAndSubscribe(t *testing.T) {
	store := storefront.NewStore(0, counter)

	var seen []int
	unsubscribe := store.Subscribe(func(s int) { seen = append(seen, s) })

	assert.Equal(t, 2, store.Dispatch(2))
	store.Dispatch("ignored")
	store.Dispatch(3)
	unsubscribe()
	store.Dispatch(10)

	assert.Equal(t, []int{2, 2, 5}, seen)
	assert.Equal(t, 15, store.State())
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := storefront.NewStore(0, counter)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, store.State())
}

func TestStore_SubscriberMayReadState(t *testing.T) {
	store := storefront.NewStore(0, counter)
	var read []int
	store.Subscribe(func(int) { read = append(read, store.State()) })

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Dispatch(4)
		store.Dispatch(1)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked while a subscriber read the store")
	}
	assert.Equal(t, []int{4, 5}, read)
}

func TestStorefront_CartSubscriberRendersLineView(t *testing.T) {
	sf := storefront.New(newFakeAPI(tee(5)))
	var views []storefront.LineView
	sf.Cart().Subscribe(func(s storefront.CartState) {
		for _, l := range sf.Cart().State().Lines {
			if v, ok := sf.Reconciler().LineView(l.LineKey); ok {
				views = append(views, v)
			}
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = sf.QuickAdd(tee(5))
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("QuickAdd blocked on a subscriber")
	}
	assert.Len(t, views, 1)
}
