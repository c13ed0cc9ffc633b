package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResource_StartsLoading(t *testing.T) {
	r := NewResource[item](newFakeGetter())
	defer r.Close()

	st := r.State()
	require.True(t, st.Loading)
	require.NoError(t, st.Err)
}

func TestResource_LoadSuccess(t *testing.T) {
	g := newFakeGetter()
	g.bodies["products/1"] = `{"id":1,"name":"Hiker"}`

	r := NewResource[item](g)
	defer r.Close()

	r.Load(t.Context(), "products/1")
	st, err := r.Wait(t.Context())

	require.NoError(t, err)
	require.False(t, st.Loading)
	require.NoError(t, st.Err)
	require.Equal(t, item{ID: 1, Name: "Hiker"}, st.Data)
}

func TestResource_LoadFailureKeepsResponseAsError(t *testing.T) {
	r := NewResource[item](newFakeGetter())
	defer r.Close()

	r.Load(t.Context(), "products/404")
	st, err := r.Wait(t.Context())

	require.NoError(t, err)
	require.False(t, st.Loading)
	var respErr *ResponseError
	require.True(t, errors.As(st.Err, &respErr))
	require.Equal(t, 404, respErr.StatusCode)
}

func TestResource_SamePathDoesNotRefetch(t *testing.T) {
	g := newFakeGetter()
	g.bodies["products/1"] = `{"id":1}`

	r := NewResource[item](g)
	defer r.Close()

	r.Load(t.Context(), "products/1")
	_, err := r.Wait(t.Context())
	require.NoError(t, err)

	r.Load(t.Context(), "products/1")
	st, err := r.Wait(t.Context())
	require.NoError(t, err)

	require.Equal(t, 1, g.callCount())
	require.Equal(t, int64(1), st.Data.ID)
}

func TestResource_NewPathRestartsFromLoading(t *testing.T) {
	g := newFakeGetter()
	g.bodies["products/1"] = `{"id":1}`
	g.bodies["products/2"] = `{"id":2}`
	gate := g.gate("products/2")

	r := NewResource[item](g)
	defer r.Close()

	r.Load(t.Context(), "products/1")
	_, err := r.Wait(t.Context())
	require.NoError(t, err)

	r.Load(t.Context(), "products/2")
	st := r.State()
	require.True(t, st.Loading)
	require.Zero(t, st.Data.ID)

	close(gate)
	st, err = r.Wait(t.Context())
	require.NoError(t, err)
	require.Equal(t, int64(2), st.Data.ID)
}

func TestResource_SupersededResultIsDropped(t *testing.T) {
	g := newFakeGetter()
	g.bodies["products/1"] = `{"id":1}`
	g.bodies["products/2"] = `{"id":2}`
	slow := g.gate("products/1")

	r := NewResource[item](g)
	defer r.Close()

	r.Load(t.Context(), "products/1")
	r.Load(t.Context(), "products/2")

	st, err := r.Wait(t.Context())
	require.NoError(t, err)
	require.Equal(t, int64(2), st.Data.ID)

	close(slow)
	require.Eventually(t, func() bool { return g.callCount() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	require.Equal(t, int64(2), r.State().Data.ID)
}

func TestResource_CloseDropsLateResult(t *testing.T) {
	g := newFakeGetter()
	g.bodies["products/1"] = `{"id":1}`
	gate := g.gate("products/1")

	r := NewResource[item](g)
	r.Load(t.Context(), "products/1")
	r.Close()
	close(gate)

	st, err := r.Wait(t.Context())
	require.NoError(t, err)
	require.True(t, st.Loading, "closed resource must not apply the result")
	require.Zero(t, st.Data.ID)
}

func TestResource_WaitHonorsContext(t *testing.T) {
	g := newFakeGetter()
	g.bodies["products/1"] = `{"id":1}`
	gate := g.gate("products/1")
	defer close(gate)

	r := NewResource[item](g)
	defer r.Close()
	r.Load(context.Background(), "products/1")

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	st, err := r.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.True(t, st.Loading)
}

func TestResource_WaitBeforeLoadWakesOnLoad(t *testing.T) {
	g := newFakeGetter()
	g.bodies["products/1"] = `{"id":1}`

	r := NewResource[item](g)
	defer r.Close()

	result := make(chan State[item], 1)
	go func() {
		st, _ := r.Wait(t.Context())
		result <- st
	}()

	time.Sleep(10 * time.Millisecond)
	r.Load(t.Context(), "products/1")

	select {
	case st := <-result:
		require.Equal(t, int64(1), st.Data.ID)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Load")
	}
}
