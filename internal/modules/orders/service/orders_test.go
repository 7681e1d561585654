package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
)

// fakeOrders mirrors the transactional semantics of OrdersPG, including the
// table coupling: placement occupies the table, the final ready frees it.
type fakeOrders struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	seq    int // placement order, stands in for created_at ordering
	seqs   map[string]int
	tables map[int]domain.TableStatus
}

func newFakeOrders(tableNumbers ...int) *fakeOrders {
	f := &fakeOrders{
		orders: map[string]domain.Order{},
		seqs:   map[string]int{},
		tables: map[int]domain.TableStatus{},
	}
	for _, n := range tableNumbers {
		f.tables[n] = domain.TableFree
	}
	return f
}

func (f *fakeOrders) PlaceTx(_ context.Context, o domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[o.TableNumber]; !ok {
		return domain.NotFoundf("table %d not found", o.TableNumber)
	}
	f.seq++
	f.seqs[o.ID] = f.seq
	f.orders[o.ID] = o
	f.tables[o.TableNumber] = domain.TableOccupied
	return nil
}

func (f *fakeOrders) AdvanceTx(_ context.Context, id string, to domain.OrderStatus) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, domain.NotFoundf("order %s not found", id)
	}
	if !o.Status.CanTransition(to) {
		return domain.Order{}, domain.InvalidTransitionf("cannot move order from %s to %s", o.Status, to)
	}
	o.Status = to
	f.orders[id] = o
	if to == domain.OrderReady {
		active := false
		for _, other := range f.orders {
			if other.ID != id && other.TableNumber == o.TableNumber && other.Active() {
				active = true
			}
		}
		if !active {
			f.tables[o.TableNumber] = domain.TableFree
		}
	}
	return o, nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, domain.NotFoundf("order %s not found", id)
	}
	return o, nil
}

func (f *fakeOrders) List(_ context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return f.seqs[out[i].ID] > f.seqs[out[j].ID] })
	return out, nil
}

func (f *fakeOrders) ActiveForTable(_ context.Context, tableNumber int) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	best := domain.Order{}
	found := false
	for _, o := range f.orders {
		if o.TableNumber != tableNumber || !o.Active() {
			continue
		}
		if !found || f.seqs[o.ID] > f.seqs[best.ID] {
			best, found = o, true
		}
	}
	if !found {
		return domain.Order{}, domain.NotFoundf("no active order for table %d", tableNumber)
	}
	return best, nil
}

func (f *fakeOrders) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return domain.NotFoundf("order %s not found", id)
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrders) tableStatus(n int) domain.TableStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tables[n]
}

func newOrderService(tableNumbers ...int) (*OrderService, *fakeOrders) {
	repo := newFakeOrders(tableNumbers...)
	return NewOrderService(repo, nil, logger.New("test")), repo
}

func cart() PlaceOrderRequest {
	return PlaceOrderRequest{
		TableNumber: 7,
		Items: []domain.OrderItem{
			{Name: "Burger", Price: 120, Quantity: 2},
			{Name: "Cola", Price: 40, Quantity: 1},
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	svc, repo := newOrderService(7)
	ctx := context.Background()

	o, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderOrdered, o.Status)
	assert.Equal(t, "waiter-1", o.WaiterID)
	assert.Equal(t, float64(280), o.Total())
	assert.Equal(t, domain.TableOccupied, repo.tableStatus(7), "placing an order occupies the table")
}

func TestPlaceOrderItemsReturnedVerbatim(t *testing.T) {
	svc, _ := newOrderService(7)
	ctx := context.Background()

	req := cart()
	placed, err := svc.Place(ctx, req, "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, req.Items, listed[0].Items)
	assert.Equal(t, placed.ID, listed[0].ID)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, _ := newOrderService(7)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*PlaceOrderRequest)
		kind   domain.ErrorKind
	}{
		{"empty items", func(r *PlaceOrderRequest) { r.Items = nil }, domain.KindValidation},
		{"zero quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity = 0 }, domain.KindValidation},
		{"negative price", func(r *PlaceOrderRequest) { r.Items[0].Price = -1 }, domain.KindValidation},
		{"missing item name", func(r *PlaceOrderRequest) { r.Items[0].Name = "" }, domain.KindValidation},
		{"bad table number", func(r *PlaceOrderRequest) { r.TableNumber = 0 }, domain.KindValidation},
		{"unknown table", func(r *PlaceOrderRequest) { r.TableNumber = 99 }, domain.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := cart()
			tc.mutate(&req)
			_, err := svc.Place(ctx, req, "waiter-1", domain.RoleWaiter)
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
		})
	}
}

func TestPlaceOrderRoleGate(t *testing.T) {
	svc, _ := newOrderService(7)
	for _, role := range []domain.Role{domain.RoleCook, domain.RoleAdmin} {
		_, err := svc.Place(context.Background(), cart(), "x", role)
		assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
	}
}

func TestAdvanceFollowsSinglePath(t *testing.T) {
	svc, _ := newOrderService(7)
	ctx := context.Background()

	o, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)

	// ordered -> ready skips a stage
	_, err = svc.Advance(ctx, o.ID, domain.OrderReady, "cook-1", domain.RoleCook)
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))

	got, err := svc.Advance(ctx, o.ID, domain.OrderCooking, "cook-1", domain.RoleCook)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCooking, got.Status)

	// cooking -> cooking and cooking -> ordered are both refused
	_, err = svc.Advance(ctx, o.ID, domain.OrderCooking, "cook-1", domain.RoleCook)
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))
	_, err = svc.Advance(ctx, o.ID, domain.OrderOrdered, "cook-1", domain.RoleCook)
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))

	got, err = svc.Advance(ctx, o.ID, domain.OrderReady, "cook-1", domain.RoleCook)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderReady, got.Status)

	// ready is terminal
	_, err = svc.Advance(ctx, o.ID, domain.OrderCooking, "cook-1", domain.RoleCook)
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))
}

func TestAdvanceCookOnly(t *testing.T) {
	svc, _ := newOrderService(7)
	ctx := context.Background()

	o, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)

	for _, role := range []domain.Role{domain.RoleWaiter, domain.RoleAdmin} {
		_, err := svc.Advance(ctx, o.ID, domain.OrderCooking, "x", role)
		assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
	}

	unchanged, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderOrdered, unchanged.Status, "denied advance must not touch status")
}

func TestAdvanceUnknownOrder(t *testing.T) {
	svc, _ := newOrderService(7)
	_, err := svc.Advance(context.Background(), "missing", domain.OrderCooking, "cook-1", domain.RoleCook)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestAdvanceUnknownStatus(t *testing.T) {
	svc, _ := newOrderService(7)
	ctx := context.Background()
	o, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)

	_, err = svc.Advance(ctx, o.ID, domain.OrderStatus("cancelled"), "cook-1", domain.RoleCook)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestReadyFreesTable(t *testing.T) {
	svc, repo := newOrderService(7)
	ctx := context.Background()

	o, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)
	assert.Equal(t, domain.TableOccupied, repo.tableStatus(7))

	_, err = svc.Advance(ctx, o.ID, domain.OrderCooking, "cook-1", domain.RoleCook)
	require.NoError(t, err)
	assert.Equal(t, domain.TableOccupied, repo.tableStatus(7))

	_, err = svc.Advance(ctx, o.ID, domain.OrderReady, "cook-1", domain.RoleCook)
	require.NoError(t, err)
	assert.Equal(t, domain.TableFree, repo.tableStatus(7), "last ready order frees the table")
}

func TestReadyKeepsTableWhileAnotherOrderActive(t *testing.T) {
	svc, repo := newOrderService(7)
	ctx := context.Background()

	first, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)
	_, err = svc.Place(ctx, cart(), "waiter-2", domain.RoleWaiter)
	require.NoError(t, err)

	_, err = svc.Advance(ctx, first.ID, domain.OrderCooking, "cook-1", domain.RoleCook)
	require.NoError(t, err)
	_, err = svc.Advance(ctx, first.ID, domain.OrderReady, "cook-1", domain.RoleCook)
	require.NoError(t, err)

	assert.Equal(t, domain.TableOccupied, repo.tableStatus(7), "second order still active")
}

func TestActiveForTable(t *testing.T) {
	svc, _ := newOrderService(7)
	ctx := context.Background()

	first, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)
	second, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)

	active, err := svc.ActiveForTable(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID, "most recent active order wins")

	// complete both; no active order remains
	for _, id := range []string{first.ID, second.ID} {
		_, err = svc.Advance(ctx, id, domain.OrderCooking, "cook-1", domain.RoleCook)
		require.NoError(t, err)
		_, err = svc.Advance(ctx, id, domain.OrderReady, "cook-1", domain.RoleCook)
		require.NoError(t, err)
	}

	_, err = svc.ActiveForTable(ctx, 7)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestConcurrentAdvanceSingleWinner(t *testing.T) {
	svc, _ := newOrderService(7)
	ctx := context.Background()

	o, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Advance(ctx, o.ID, domain.OrderCooking, "cook-1", domain.RoleCook)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok, "exactly one advance to cooking must win")
}

func TestReadyNeverFreesTableRacingPlacement(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		svc, repo := newOrderService(7)
		first, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
		require.NoError(t, err)
		_, err = svc.Advance(ctx, first.ID, domain.OrderCooking, "cook-1", domain.RoleCook)
		require.NoError(t, err)

		var wg sync.WaitGroup
		var readyErr, placeErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, readyErr = svc.Advance(ctx, first.ID, domain.OrderReady, "cook-1", domain.RoleCook)
		}()
		go func() {
			defer wg.Done()
			_, placeErr = svc.Place(ctx, cart(), "waiter-2", domain.RoleWaiter)
		}()
		wg.Wait()
		require.NoError(t, readyErr)
		require.NoError(t, placeErr)

		if _, err := svc.ActiveForTable(ctx, 7); err == nil {
			assert.Equal(t, domain.TableOccupied, repo.tableStatus(7),
				"table must stay occupied while an order is active")
		}
	}
}

func TestDeleteOrderAdminOnly(t *testing.T) {
	svc, _ := newOrderService(7)
	ctx := context.Background()

	o, err := svc.Place(ctx, cart(), "waiter-1", domain.RoleWaiter)
	require.NoError(t, err)

	err = svc.Delete(ctx, o.ID, domain.RoleWaiter)
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))

	require.NoError(t, svc.Delete(ctx, o.ID, domain.RoleAdmin))
	_, err = svc.Get(ctx, o.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
