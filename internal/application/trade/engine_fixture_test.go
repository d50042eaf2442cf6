package trade

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/finance"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
)

// memState is the backing store for the in-memory repositories used by
// the engine tests. memScope snapshots it before each Execute and
// restores it on error, mirroring a database rollback.
type memState struct {
	sales       map[uuid.UUID]trade.SaleInvoice
	purchases   map[uuid.UUID]trade.PurchaseInvoice
	products    map[uuid.UUID]catalog.Product
	customers   map[uuid.UUID]partner.Customer
	suppliers   map[uuid.UUID]partner.Supplier
	movements   []inventory.StockMovement
	cash        []finance.CashTransaction
	saleSeq     int64
	purchaseSeq int64
}

func newMemState() *memState {
	return &memState{
		sales:     make(map[uuid.UUID]trade.SaleInvoice),
		purchases: make(map[uuid.UUID]trade.PurchaseInvoice),
		products:  make(map[uuid.UUID]catalog.Product),
		customers: make(map[uuid.UUID]partner.Customer),
		suppliers: make(map[uuid.UUID]partner.Supplier),
	}
}

func cloneSale(s trade.SaleInvoice) trade.SaleInvoice {
	out := s
	out.Items = append([]trade.SaleItem(nil), s.Items...)
	return out
}

func clonePurchase(p trade.PurchaseInvoice) trade.PurchaseInvoice {
	out := p
	out.Items = append([]trade.PurchaseItem(nil), p.Items...)
	return out
}

func (st *memState) clone() *memState {
	out := newMemState()
	for id, s := range st.sales {
		out.sales[id] = cloneSale(s)
	}
	for id, p := range st.purchases {
		out.purchases[id] = clonePurchase(p)
	}
	for id, p := range st.products {
		out.products[id] = p
	}
	for id, c := range st.customers {
		out.customers[id] = c
	}
	for id, s := range st.suppliers {
		out.suppliers[id] = s
	}
	out.movements = append([]inventory.StockMovement(nil), st.movements...)
	out.cash = append([]finance.CashTransaction(nil), st.cash...)
	out.saleSeq = st.saleSeq
	out.purchaseSeq = st.purchaseSeq
	return out
}

// memScope implements TransactionScope over memState with
// snapshot-restore rollback
type memScope struct {
	st *memState
}

func (sc *memScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	backup := sc.st.clone()
	if err := fn(sc); err != nil {
		*sc.st = *backup
		return err
	}
	return nil
}

func (sc *memScope) SaleRepo() trade.SaleInvoiceRepository         { return &memSaleRepo{sc.st} }
func (sc *memScope) PurchaseRepo() trade.PurchaseInvoiceRepository { return &memPurchaseRepo{sc.st} }
func (sc *memScope) ProductRepo() catalog.ProductRepository        { return &memProductRepo{sc.st} }
func (sc *memScope) CustomerRepo() partner.CustomerRepository      { return &memCustomerRepo{sc.st} }
func (sc *memScope) SupplierRepo() partner.SupplierRepository      { return &memSupplierRepo{sc.st} }
func (sc *memScope) MovementRepo() inventory.StockMovementRepository {
	return &memMovementRepo{sc.st}
}
func (sc *memScope) CashRepo() finance.CashTransactionRepository { return &memCashRepo{sc.st} }

var _ TransactionScope = (*memScope)(nil)
var _ TransactionalRepositories = (*memScope)(nil)

type memSaleRepo struct{ st *memState }

func (r *memSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.SaleInvoice, error) {
	s, ok := r.st.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := cloneSale(s)
	return &out, nil
}

func (r *memSaleRepo) FindByNumber(_ context.Context, number string) (*trade.SaleInvoice, error) {
	for _, s := range r.st.sales {
		if s.InvoiceNumber == number {
			out := cloneSale(s)
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSaleRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.SaleInvoice, error) {
	out := make([]trade.SaleInvoice, 0, len(r.st.sales))
	for _, s := range r.st.sales {
		out = append(out, cloneSale(s))
	}
	return out, nil
}

func (r *memSaleRepo) FindByDateRange(_ context.Context, from, to time.Time) ([]trade.SaleInvoice, error) {
	var out []trade.SaleInvoice
	for _, s := range r.st.sales {
		if !s.InvoiceDate.Before(from) && s.InvoiceDate.Before(to) {
			out = append(out, cloneSale(s))
		}
	}
	return out, nil
}

func (r *memSaleRepo) Save(_ context.Context, sale *trade.SaleInvoice) error {
	r.st.sales[sale.ID] = cloneSale(*sale)
	return nil
}

func (r *memSaleRepo) ReplaceItems(_ context.Context, sale *trade.SaleInvoice) error {
	r.st.sales[sale.ID] = cloneSale(*sale)
	return nil
}

func (r *memSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.sales[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.st.sales, id)
	return nil
}

func (r *memSaleRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.st.sales)), nil
}

func (r *memSaleRepo) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range r.st.sales {
		for _, item := range s.Items {
			if item.ProductID == productID {
				n++
			}
		}
	}
	return n, nil
}

func (r *memSaleRepo) CountByCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range r.st.sales {
		if s.CustomerID != nil && *s.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (r *memSaleRepo) NextInvoiceNumber(_ context.Context) (string, error) {
	r.st.saleSeq++
	return fmt.Sprintf("INV%06d", r.st.saleSeq), nil
}

type memPurchaseRepo struct{ st *memState }

func (r *memPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.PurchaseInvoice, error) {
	p, ok := r.st.purchases[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := clonePurchase(p)
	return &out, nil
}

func (r *memPurchaseRepo) FindByNumber(_ context.Context, number string) (*trade.PurchaseInvoice, error) {
	for _, p := range r.st.purchases {
		if p.InvoiceNumber == number {
			out := clonePurchase(p)
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPurchaseRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.PurchaseInvoice, error) {
	out := make([]trade.PurchaseInvoice, 0, len(r.st.purchases))
	for _, p := range r.st.purchases {
		out = append(out, clonePurchase(p))
	}
	return out, nil
}

func (r *memPurchaseRepo) FindByDateRange(_ context.Context, from, to time.Time) ([]trade.PurchaseInvoice, error) {
	var out []trade.PurchaseInvoice
	for _, p := range r.st.purchases {
		if !p.InvoiceDate.Before(from) && p.InvoiceDate.Before(to) {
			out = append(out, clonePurchase(p))
		}
	}
	return out, nil
}

func (r *memPurchaseRepo) Save(_ context.Context, purchase *trade.PurchaseInvoice) error {
	r.st.purchases[purchase.ID] = clonePurchase(*purchase)
	return nil
}

func (r *memPurchaseRepo) ReplaceItems(_ context.Context, purchase *trade.PurchaseInvoice) error {
	r.st.purchases[purchase.ID] = clonePurchase(*purchase)
	return nil
}

func (r *memPurchaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.purchases[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.st.purchases, id)
	return nil
}

func (r *memPurchaseRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.st.purchases)), nil
}

func (r *memPurchaseRepo) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.st.purchases {
		for _, item := range p.Items {
			if item.ProductID == productID {
				n++
			}
		}
	}
	return n, nil
}

func (r *memPurchaseRepo) CountBySupplier(_ context.Context, supplierID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.st.purchases {
		if p.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

func (r *memPurchaseRepo) NextInvoiceNumber(_ context.Context) (string, error) {
	r.st.purchaseSeq++
	return fmt.Sprintf("PUR%06d", r.st.purchaseSeq), nil
}

type memProductRepo struct{ st *memState }

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := p
	return &out, nil
}

func (r *memProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, p := range r.st.products {
		if p.Code == code {
			out := p
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := r.st.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindLowStock(_ context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.st.products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.st.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.st.products, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.st.products)), nil
}

func (r *memProductRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, p := range r.st.products {
		if p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepo) NextCode(_ context.Context) (string, error) {
	return fmt.Sprintf("PROD%03d", len(r.st.products)+1), nil
}

type memCustomerRepo struct{ st *memState }

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.st.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := c
	return &out, nil
}

func (r *memCustomerRepo) FindByCode(_ context.Context, code string) (*partner.Customer, error) {
	for _, c := range r.st.customers {
		if c.Code == code {
			out := c
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Customer, error) {
	out := make([]partner.Customer, 0, len(r.st.customers))
	for _, c := range r.st.customers {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	r.st.customers[customer.ID] = *customer
	return nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.st.customers, id)
	return nil
}

func (r *memCustomerRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.st.customers)), nil
}

func (r *memCustomerRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, c := range r.st.customers {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCustomerRepo) NextCode(_ context.Context) (string, error) {
	return fmt.Sprintf("CUST%03d", len(r.st.customers)+1), nil
}

type memSupplierRepo struct{ st *memState }

func (r *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	s, ok := r.st.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := s
	return &out, nil
}

func (r *memSupplierRepo) FindByCode(_ context.Context, code string) (*partner.Supplier, error) {
	for _, s := range r.st.suppliers {
		if s.Code == code {
			out := s
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSupplierRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Supplier, error) {
	out := make([]partner.Supplier, 0, len(r.st.suppliers))
	for _, s := range r.st.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSupplierRepo) Save(_ context.Context, supplier *partner.Supplier) error {
	r.st.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *memSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.st.suppliers, id)
	return nil
}

func (r *memSupplierRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.st.suppliers)), nil
}

func (r *memSupplierRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, s := range r.st.suppliers {
		if s.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memSupplierRepo) NextCode(_ context.Context) (string, error) {
	return fmt.Sprintf("SUPP%03d", len(r.st.suppliers)+1), nil
}

type memMovementRepo struct{ st *memState }

func (r *memMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.st.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.StockMovement, error) {
	return append([]inventory.StockMovement(nil), r.st.movements...), nil
}

func (r *memMovementRepo) Append(_ context.Context, movement *inventory.StockMovement) error {
	r.st.movements = append(r.st.movements, *movement)
	return nil
}

func (r *memMovementRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.st.movements)), nil
}

type memCashRepo struct{ st *memState }

func (r *memCashRepo) FindLatest(_ context.Context) (*finance.CashTransaction, error) {
	if len(r.st.cash) == 0 {
		return nil, nil
	}
	out := r.st.cash[len(r.st.cash)-1]
	return &out, nil
}

func (r *memCashRepo) FindAll(_ context.Context, _ shared.Filter) ([]finance.CashTransaction, error) {
	return append([]finance.CashTransaction(nil), r.st.cash...), nil
}

func (r *memCashRepo) Append(_ context.Context, tx *finance.CashTransaction) error {
	r.st.cash = append(r.st.cash, *tx)
	return nil
}

func (r *memCashRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.st.cash)), nil
}

// engineFixture wires the services against one shared memState
type engineFixture struct {
	st        *memState
	scope     *memScope
	sales     *SaleInvoiceService
	purchases *PurchaseInvoiceService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	st := newMemState()
	scope := &memScope{st: st}
	logger := zap.NewNop()
	return &engineFixture{
		st:        st,
		scope:     scope,
		sales:     NewSaleInvoiceService(scope, logger),
		purchases: NewPurchaseInvoiceService(scope, logger),
	}
}

func (f *engineFixture) seedProduct(t *testing.T, code, name string, purchasePrice, salePrice float64, qty int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, name, decimal.NewFromFloat(purchasePrice), decimal.NewFromFloat(salePrice))
	require.NoError(t, err)
	if qty > 0 {
		require.NoError(t, product.IncreaseStock(qty))
	}
	f.st.products[product.ID] = *product
	return product
}

func (f *engineFixture) seedCustomer(t *testing.T, code, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(code, name)
	require.NoError(t, err)
	f.st.customers[customer.ID] = *customer
	return customer
}

func (f *engineFixture) seedSupplier(t *testing.T, code, name string) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier(code, name)
	require.NoError(t, err)
	f.st.suppliers[supplier.ID] = *supplier
	return supplier
}

func (f *engineFixture) seedCash(t *testing.T, amount float64) {
	t.Helper()
	tx, err := finance.CreateDeposit(decimal.NewFromFloat(amount), f.cashBalance())
	require.NoError(t, err)
	f.st.cash = append(f.st.cash, *tx)
}

func (f *engineFixture) product(id uuid.UUID) catalog.Product   { return f.st.products[id] }
func (f *engineFixture) customer(id uuid.UUID) partner.Customer { return f.st.customers[id] }
func (f *engineFixture) supplier(id uuid.UUID) partner.Supplier { return f.st.suppliers[id] }

func (f *engineFixture) cashBalance() decimal.Decimal {
	if len(f.st.cash) == 0 {
		return decimal.Zero
	}
	return f.st.cash[len(f.st.cash)-1].BalanceAfter
}

// cashEntriesFor counts ledger entries whose notes mention the invoice
func (f *engineFixture) cashEntriesFor(invoiceNumber string) int {
	n := 0
	for _, tx := range f.st.cash {
		if strings.Contains(tx.Notes, invoiceNumber) {
			n++
		}
	}
	return n
}
