// Package apptest provee dobles en memoria de los puertos de persistencia y un
// TxRunner con semántica de rollback por snapshot. Solo lo usan los tests de
// los casos de uso; no toca ninguna base de datos.
package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maximiza-sistemas/distrigas-api/internal/domain"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

// Store agrupa todas las colecciones para que el TxRunner pueda hacer snapshot
// y rollback de todo el estado de una vez.
type Store struct {
	Records   map[string]*entity.StockRecord // key: productID|locationID
	Movements []*entity.StockMovement
	Orders    map[string]*entity.Order
	Items     []*entity.OrderItem
	Payments  map[string]*entity.OrderPayment
	Txs       map[string]*entity.FinancialTransaction
	Accounts  map[string]*entity.FinancialAccount
	Products  map[string]*entity.Product
	Locations map[string]*entity.Location
	Clients   map[string]*entity.Client
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		Records:   map[string]*entity.StockRecord{},
		Orders:    map[string]*entity.Order{},
		Payments:  map[string]*entity.OrderPayment{},
		Txs:       map[string]*entity.FinancialTransaction{},
		Accounts:  map[string]*entity.FinancialAccount{},
		Products:  map[string]*entity.Product{},
		Locations: map[string]*entity.Location{},
		Clients:   map[string]*entity.Client{},
	}
}

func recordKey(productID, locationID string) string {
	return productID + "|" + locationID
}

// SeedProduct agrega un producto activo al catálogo.
func (s *Store) SeedProduct(id string, price, cost decimal.Decimal) *entity.Product {
	p := &entity.Product{ID: id, SKU: "SKU-" + id, Name: "producto " + id, Price: price, Cost: cost, Active: true}
	s.Products[id] = p
	return p
}

// SeedLocation agrega una sede activa.
func (s *Store) SeedLocation(id string) *entity.Location {
	l := &entity.Location{ID: id, Name: "sede " + id, Active: true}
	s.Locations[id] = l
	return l
}

// SeedClient agrega un cliente activo.
func (s *Store) SeedClient(id string) *entity.Client {
	c := &entity.Client{ID: id, Name: "cliente " + id, Document: "doc-" + id, Active: true}
	s.Clients[id] = c
	return c
}

// SeedAccount agrega una cuenta con el saldo indicado.
func (s *Store) SeedAccount(id string, balance decimal.Decimal) *entity.FinancialAccount {
	a := &entity.FinancialAccount{ID: id, Name: "cuenta " + id, InitialBalance: balance, CurrentBalance: balance}
	s.Accounts[id] = a
	return a
}

// SeedStock fija existencias de cilindros llenos para una llave.
func (s *Store) SeedStock(productID, locationID string, fullQty decimal.Decimal) {
	s.Records[recordKey(productID, locationID)] = &entity.StockRecord{
		ProductID:  productID,
		LocationID: locationID,
		FullQty:    fullQty,
	}
}

func (s *Store) snapshot() *Store {
	cp := NewStore()
	for k, v := range s.Records {
		r := *v
		cp.Records[k] = &r
	}
	for _, m := range s.Movements {
		mv := *m
		cp.Movements = append(cp.Movements, &mv)
	}
	for k, v := range s.Orders {
		o := *v
		o.Items = append([]entity.OrderItem(nil), v.Items...)
		cp.Orders[k] = &o
	}
	for _, it := range s.Items {
		iv := *it
		cp.Items = append(cp.Items, &iv)
	}
	for k, v := range s.Payments {
		p := *v
		cp.Payments[k] = &p
	}
	for k, v := range s.Txs {
		t := *v
		cp.Txs[k] = &t
	}
	for k, v := range s.Accounts {
		a := *v
		cp.Accounts[k] = &a
	}
	cp.Products = s.Products
	cp.Locations = s.Locations
	cp.Clients = s.Clients
	return cp
}

func (s *Store) restore(from *Store) {
	s.Records = from.Records
	s.Movements = from.Movements
	s.Orders = from.Orders
	s.Items = from.Items
	s.Payments = from.Payments
	s.Txs = from.Txs
	s.Accounts = from.Accounts
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

// TxRunner implementa los runners de stock, orders, finance y payments sobre el
// almacén en memoria. Si el callback falla se restaura el snapshot: misma
// semántica todo-o-nada que la transacción de BD real.
type TxRunner struct {
	Store *Store
}

// NewTxRunner construye el runner de test.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{Store: store}
}

func (r *TxRunner) run(fn func() error) error {
	snap := r.Store.snapshot()
	if err := fn(); err != nil {
		r.Store.restore(snap)
		return err
	}
	return nil
}

// Run implementa stock.TxRunner.
func (r *TxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	recRepo repository.StockRecordRepository,
) error) error {
	return r.run(func() error {
		return fn(NewMovementRepo(r.Store), NewRecordRepo(r.Store))
	})
}

// RunOrder implementa orders.TxRunner.
func (r *TxRunner) RunOrder(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	paymentRepo repository.OrderPaymentRepository,
	movRepo repository.StockMovementRepository,
	recRepo repository.StockRecordRepository,
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
) error) error {
	return r.run(func() error {
		return fn(
			NewOrderRepo(r.Store), NewPaymentRepo(r.Store),
			NewMovementRepo(r.Store), NewRecordRepo(r.Store),
			NewTxRepo(r.Store), NewAccountRepo(r.Store),
		)
	})
}

// RunFinance implementa finance.TxRunner.
func (r *TxRunner) RunFinance(_ context.Context, fn func(
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
) error) error {
	return r.run(func() error {
		return fn(NewTxRepo(r.Store), NewAccountRepo(r.Store))
	})
}

// RunPayments implementa payments.TxRunner.
func (r *TxRunner) RunPayments(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	paymentRepo repository.OrderPaymentRepository,
	txRepo repository.FinancialTransactionRepository,
	accRepo repository.FinancialAccountRepository,
) error) error {
	return r.run(func() error {
		return fn(NewOrderRepo(r.Store), NewPaymentRepo(r.Store), NewTxRepo(r.Store), NewAccountRepo(r.Store))
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos de stock
// ──────────────────────────────────────────────────────────────────────────────

// RecordRepo doble en memoria de StockRecordRepository.
type RecordRepo struct{ s *Store }

var _ repository.StockRecordRepository = (*RecordRepo)(nil)

// NewRecordRepo construye el doble.
func NewRecordRepo(s *Store) *RecordRepo { return &RecordRepo{s: s} }

func (r *RecordRepo) Get(productID, locationID string) (*entity.StockRecord, error) {
	if rec, ok := r.s.Records[recordKey(productID, locationID)]; ok {
		cp := *rec
		return &cp, nil
	}
	return &entity.StockRecord{ProductID: productID, LocationID: locationID}, nil
}

func (r *RecordRepo) GetForUpdate(productID, locationID string) (*entity.StockRecord, error) {
	return r.Get(productID, locationID)
}

func (r *RecordRepo) ApplyDelta(productID, locationID, bottleState string, delta decimal.Decimal) (*entity.StockRecord, error) {
	key := recordKey(productID, locationID)
	rec, ok := r.s.Records[key]
	if !ok {
		rec = &entity.StockRecord{ProductID: productID, LocationID: locationID}
		r.s.Records[key] = rec
	}
	switch bottleState {
	case entity.BottleStateFull:
		rec.FullQty = rec.FullQty.Add(delta)
	case entity.BottleStateEmpty:
		rec.EmptyQty = rec.EmptyQty.Add(delta)
	case entity.BottleStateMaintenance:
		rec.MaintenanceQty = rec.MaintenanceQty.Add(delta)
	default:
		return nil, domain.ErrInvalidInput
	}
	rec.UpdatedAt = time.Now()
	cp := *rec
	return &cp, nil
}

func (r *RecordRepo) SetLevels(productID, locationID string, minLevel, maxLevel decimal.Decimal) error {
	key := recordKey(productID, locationID)
	rec, ok := r.s.Records[key]
	if !ok {
		rec = &entity.StockRecord{ProductID: productID, LocationID: locationID}
		r.s.Records[key] = rec
	}
	rec.MinLevel = minLevel
	rec.MaxLevel = maxLevel
	return nil
}

func (r *RecordRepo) Delete(productID, locationID string) error {
	key := recordKey(productID, locationID)
	if _, ok := r.s.Records[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Records, key)
	return nil
}

func (r *RecordRepo) ListByLocation(locationID string) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, rec := range r.s.Records {
		if rec.LocationID == locationID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// MovementRepo doble en memoria de StockMovementRepository.
type MovementRepo struct{ s *Store }

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// NewMovementRepo construye el doble.
func NewMovementRepo(s *Store) *MovementRepo { return &MovementRepo{s: s} }

func (r *MovementRepo) Create(movement *entity.StockMovement) error {
	cp := *movement
	r.s.Movements = append(r.s.Movements, &cp)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.Movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MovementRepo) ListByOrder(orderID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.Movements {
		if m.OrderID == orderID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MovementRepo) ListByKey(productID, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.Movements {
		if m.ProductID != productID || m.LocationID != locationID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MovementRepo) SumByKey(productID, locationID string) (full, empty, maintenance decimal.Decimal, err error) {
	for _, m := range r.s.Movements {
		if m.ProductID != productID || m.LocationID != locationID {
			continue
		}
		switch m.BottleState {
		case entity.BottleStateFull:
			full = full.Add(m.Quantity)
		case entity.BottleStateEmpty:
			empty = empty.Add(m.Quantity)
		case entity.BottleStateMaintenance:
			maintenance = maintenance.Add(m.Quantity)
		}
	}
	return full, empty, maintenance, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos de pedidos y abonos
// ──────────────────────────────────────────────────────────────────────────────

// OrderRepo doble en memoria de OrderRepository.
type OrderRepo struct{ s *Store }

var _ repository.OrderRepository = (*OrderRepo)(nil)

// NewOrderRepo construye el doble.
func NewOrderRepo(s *Store) *OrderRepo { return &OrderRepo{s: s} }

func (r *OrderRepo) Create(order *entity.Order) error {
	cp := *order
	cp.Items = nil
	r.s.Orders[order.ID] = &cp
	return nil
}

func (r *OrderRepo) CreateItem(item *entity.OrderItem) error {
	cp := *item
	r.s.Items = append(r.s.Items, &cp)
	return nil
}

func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.Orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	items, _ := r.ListItems(id)
	for _, it := range items {
		cp.Items = append(cp.Items, *it)
	}
	return &cp, nil
}

func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	o, ok := r.s.Orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	cp.Items = nil
	return &cp, nil
}

func (r *OrderRepo) ListItems(orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range r.s.Items {
		if it.OrderID == orderID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	o, ok := r.s.Orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (r *OrderRepo) UpdatePaymentState(id string, paidAmount decimal.Decimal, paymentStatus string) error {
	o, ok := r.s.Orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.PaidAmount = paidAmount
	o.PaymentStatus = paymentStatus
	o.UpdatedAt = time.Now()
	return nil
}

func (r *OrderRepo) List(status string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.Orders {
		if status == "" || o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// PaymentRepo doble en memoria de OrderPaymentRepository.
type PaymentRepo struct{ s *Store }

var _ repository.OrderPaymentRepository = (*PaymentRepo)(nil)

// NewPaymentRepo construye el doble.
func NewPaymentRepo(s *Store) *PaymentRepo { return &PaymentRepo{s: s} }

func (r *PaymentRepo) Create(payment *entity.OrderPayment) error {
	cp := *payment
	r.s.Payments[payment.ID] = &cp
	return nil
}

func (r *PaymentRepo) GetByID(id string) (*entity.OrderPayment, error) {
	p, ok := r.s.Payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PaymentRepo) ListByOrder(orderID string) ([]*entity.OrderPayment, error) {
	var out []*entity.OrderPayment
	for _, p := range r.s.Payments {
		if p.OrderID == orderID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.Before(out[j].PaymentDate) })
	return out, nil
}

func (r *PaymentRepo) Delete(id string) error {
	if _, ok := r.s.Payments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Payments, id)
	return nil
}

func (r *PaymentRepo) DeleteByOrder(orderID string) error {
	for id, p := range r.s.Payments {
		if p.OrderID == orderID {
			delete(r.s.Payments, id)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos del libro financiero
// ──────────────────────────────────────────────────────────────────────────────

// TxRepo doble en memoria de FinancialTransactionRepository.
type TxRepo struct{ s *Store }

var _ repository.FinancialTransactionRepository = (*TxRepo)(nil)

// NewTxRepo construye el doble.
func NewTxRepo(s *Store) *TxRepo { return &TxRepo{s: s} }

func (r *TxRepo) Create(tx *entity.FinancialTransaction) error {
	cp := *tx
	r.s.Txs[tx.ID] = &cp
	return nil
}

func (r *TxRepo) CreateForOrder(tx *entity.FinancialTransaction) (bool, error) {
	for _, t := range r.s.Txs {
		if t.OrderID != "" && t.OrderID == tx.OrderID {
			return false, nil
		}
	}
	cp := *tx
	r.s.Txs[tx.ID] = &cp
	return true, nil
}

func (r *TxRepo) GetByID(id string) (*entity.FinancialTransaction, error) {
	t, ok := r.s.Txs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TxRepo) GetByOrder(orderID string) (*entity.FinancialTransaction, error) {
	for _, t := range r.s.Txs {
		if t.OrderID == orderID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *TxRepo) SetStatus(id, status string, settlementDate *time.Time) (bool, error) {
	t, ok := r.s.Txs[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if t.Status == status {
		return false, nil
	}
	t.Status = status
	t.SettlementDate = settlementDate
	return true, nil
}

func (r *TxRepo) Delete(id string) error {
	if _, ok := r.s.Txs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Txs, id)
	return nil
}

func (r *TxRepo) Summarize(from, to *time.Time) (*entity.FinancialSummary, error) {
	s := &entity.FinancialSummary{}
	for _, t := range r.s.Txs {
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && t.CreatedAt.After(*to) {
			continue
		}
		switch {
		case t.Status == entity.TransactionStatusSettled && t.Kind == entity.TransactionKindRevenue:
			s.Revenue = s.Revenue.Add(t.Amount)
		case t.Status == entity.TransactionStatusSettled && t.Kind == entity.TransactionKindExpense:
			s.Expense = s.Expense.Add(t.Amount)
		case t.Status == entity.TransactionStatusPending:
			if t.Kind == entity.TransactionKindExpense {
				s.Pending = s.Pending.Sub(t.Amount)
			} else {
				s.Pending = s.Pending.Add(t.Amount)
			}
		}
	}
	now := time.Now()
	for _, o := range r.s.Orders {
		if o.Status == entity.OrderStatusCancelled || o.DueDate == nil || o.DueDate.After(now) {
			continue
		}
		pending := o.TotalValue.Sub(o.Discount).Sub(o.PaidAmount)
		if pending.GreaterThan(decimal.Zero) {
			s.Overdue = s.Overdue.Add(pending)
		}
	}
	return s, nil
}

// AccountRepo doble en memoria de FinancialAccountRepository.
type AccountRepo struct{ s *Store }

var _ repository.FinancialAccountRepository = (*AccountRepo)(nil)

// NewAccountRepo construye el doble.
func NewAccountRepo(s *Store) *AccountRepo { return &AccountRepo{s: s} }

func (r *AccountRepo) Create(account *entity.FinancialAccount) error {
	cp := *account
	r.s.Accounts[account.ID] = &cp
	return nil
}

func (r *AccountRepo) GetByID(id string) (*entity.FinancialAccount, error) {
	a, ok := r.s.Accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *AccountRepo) List() ([]*entity.FinancialAccount, error) {
	var out []*entity.FinancialAccount
	for _, a := range r.s.Accounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *AccountRepo) AddToBalance(id string, delta decimal.Decimal) error {
	a, ok := r.s.Accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

// ProductRepo doble en memoria de ProductRepository (solo lecturas).
type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

// NewProductRepo construye el doble.
func NewProductRepo(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(product *entity.Product) error {
	r.s.Products[product.ID] = product
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.Products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.Products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProductRepo) Update(product *entity.Product) error {
	r.s.Products[product.ID] = product
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.Products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// LocationRepo doble en memoria de LocationRepository (solo lecturas).
type LocationRepo struct{ s *Store }

var _ repository.LocationRepository = (*LocationRepo)(nil)

// NewLocationRepo construye el doble.
func NewLocationRepo(s *Store) *LocationRepo { return &LocationRepo{s: s} }

func (r *LocationRepo) Create(location *entity.Location) error {
	r.s.Locations[location.ID] = location
	return nil
}

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	l, ok := r.s.Locations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (r *LocationRepo) Update(location *entity.Location) error {
	r.s.Locations[location.ID] = location
	return nil
}

func (r *LocationRepo) List() ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.Locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ClientRepo doble en memoria de ClientRepository (solo lecturas).
type ClientRepo struct{ s *Store }

var _ repository.ClientRepository = (*ClientRepo)(nil)

// NewClientRepo construye el doble.
func NewClientRepo(s *Store) *ClientRepo { return &ClientRepo{s: s} }

func (r *ClientRepo) Create(client *entity.Client) error {
	r.s.Clients[client.ID] = client
	return nil
}

func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.s.Clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *ClientRepo) GetByDocument(document string) (*entity.Client, error) {
	for _, c := range r.s.Clients {
		if c.Document == document {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ClientRepo) Update(client *entity.Client) error {
	r.s.Clients[client.ID] = client
	return nil
}

func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.s.Clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
