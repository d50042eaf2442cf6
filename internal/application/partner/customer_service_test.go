package partner

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/shared"
)

type stubCustomerRepo struct {
	customers map[uuid.UUID]*partner.Customer
	seq       int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *customer
	return &clone, nil
}

func (r *stubCustomerRepo) FindByCode(_ context.Context, code string) (*partner.Customer, error) {
	for _, customer := range r.customers {
		if customer.Code == code {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubCustomerRepo) FindAll(context.Context, shared.Filter) ([]partner.Customer, error) {
	result := make([]partner.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		result = append(result, *customer)
	}
	return result, nil
}

func (r *stubCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.customers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.customers)), nil
}

func (r *stubCustomerRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.FindByCode(ctx, code)
	return err == nil, nil
}

func (r *stubCustomerRepo) NextCode(context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("CUST%03d", r.seq), nil
}

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*partner.Supplier
	seq       int
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *supplier
	return &clone, nil
}

func (r *stubSupplierRepo) FindByCode(_ context.Context, code string) (*partner.Supplier, error) {
	for _, supplier := range r.suppliers {
		if supplier.Code == code {
			clone := *supplier
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubSupplierRepo) FindAll(context.Context, shared.Filter) ([]partner.Supplier, error) {
	result := make([]partner.Supplier, 0, len(r.suppliers))
	for _, supplier := range r.suppliers {
		result = append(result, *supplier)
	}
	return result, nil
}

func (r *stubSupplierRepo) Save(_ context.Context, supplier *partner.Supplier) error {
	clone := *supplier
	r.suppliers[supplier.ID] = &clone
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.suppliers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.suppliers, id)
	return nil
}

func (r *stubSupplierRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.suppliers)), nil
}

func (r *stubSupplierRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.FindByCode(ctx, code)
	return err == nil, nil
}

func (r *stubSupplierRepo) NextCode(context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("SUPP%03d", r.seq), nil
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type stubInvoiceCounter struct {
	count int64
}

func (r *stubInvoiceCounter) CountByCustomer(context.Context, uuid.UUID) (int64, error) {
	return r.count, nil
}

func (r *stubInvoiceCounter) CountBySupplier(context.Context, uuid.UUID) (int64, error) {
	return r.count, nil
}

func TestCustomerService(t *testing.T) {
	ctx := context.Background()

	newService := func(invoiceCount int64) (*CustomerService, *stubCustomerRepo) {
		repo := newStubCustomerRepo()
		return NewCustomerService(repo, &stubInvoiceCounter{count: invoiceCount}, zap.NewNop()), repo
	}

	t.Run("generates sequential codes", func(t *testing.T) {
		service, _ := newService(0)

		first, err := service.Create(ctx, CreatePartnerRequest{Name: "Alice Market"})
		require.NoError(t, err)
		assert.Equal(t, "CUST001", first.Code)
		assert.True(t, first.Balance.IsZero())

		second, err := service.Create(ctx, CreatePartnerRequest{Name: "Bob Stores"})
		require.NoError(t, err)
		assert.Equal(t, "CUST002", second.Code)
	})

	t.Run("rejects duplicate explicit codes", func(t *testing.T) {
		service, _ := newService(0)

		_, err := service.Create(ctx, CreatePartnerRequest{Code: "ALICE", Name: "Alice Market"})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreatePartnerRequest{Code: "ALICE", Name: "Another Alice"})
		require.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("update edits contact details only", func(t *testing.T) {
		service, repo := newService(0)

		created, err := service.Create(ctx, CreatePartnerRequest{Name: "Alice Market"})
		require.NoError(t, err)

		// balance moved by the invoice engine
		stored := repo.customers[created.ID]
		stored.ApplyBalanceDelta(mustDecimal("25"), mustDecimal("25"))

		updated, err := service.Update(ctx, created.ID, UpdatePartnerRequest{
			Name:  "Alice Market & Co",
			Phone: "555-0101",
		})
		require.NoError(t, err)

		assert.Equal(t, "Alice Market & Co", updated.Name)
		assert.True(t, updated.Balance.Equal(mustDecimal("25")))
	})

	t.Run("delete is blocked while invoices reference the customer", func(t *testing.T) {
		service, repo := newService(3)

		created, err := service.Create(ctx, CreatePartnerRequest{Name: "Alice Market"})
		require.NoError(t, err)

		err = service.Delete(ctx, created.ID)
		require.ErrorIs(t, err, shared.ErrReferentialConflict)
		assert.Len(t, repo.customers, 1)
	})

	t.Run("delete succeeds without references", func(t *testing.T) {
		service, repo := newService(0)

		created, err := service.Create(ctx, CreatePartnerRequest{Name: "Alice Market"})
		require.NoError(t, err)

		require.NoError(t, service.Delete(ctx, created.ID))
		assert.Empty(t, repo.customers)
	})
}

func TestSupplierService(t *testing.T) {
	ctx := context.Background()

	newService := func(invoiceCount int64) (*SupplierService, *stubSupplierRepo) {
		repo := newStubSupplierRepo()
		return NewSupplierService(repo, &stubInvoiceCounter{count: invoiceCount}, zap.NewNop()), repo
	}

	t.Run("generates sequential codes", func(t *testing.T) {
		service, _ := newService(0)

		first, err := service.Create(ctx, CreatePartnerRequest{Name: "Acme Wholesale"})
		require.NoError(t, err)
		assert.Equal(t, "SUPP001", first.Code)
	})

	t.Run("delete is blocked while invoices reference the supplier", func(t *testing.T) {
		service, _ := newService(1)

		created, err := service.Create(ctx, CreatePartnerRequest{Name: "Acme Wholesale"})
		require.NoError(t, err)

		err = service.Delete(ctx, created.ID)
		require.ErrorIs(t, err, shared.ErrReferentialConflict)
	})
}
