package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/shared"
)

// SupplierReferenceCounter counts purchase invoices that reference a
// supplier, guarding deletes.
type SupplierReferenceCounter interface {
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	purchaseRefs SupplierReferenceCounter
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	supplierRepo partner.SupplierRepository,
	purchaseRefs SupplierReferenceCounter,
	logger *zap.Logger,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		purchaseRefs: purchaseRefs,
		logger:       logger,
	}
}

// Create creates a new supplier, generating a code when none is given
func (s *SupplierService) Create(ctx context.Context, req CreatePartnerRequest) (*SupplierResponse, error) {
	code := req.Code
	if code == "" {
		generated, err := s.supplierRepo.NextCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	} else {
		exists, err := s.supplierRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this code already exists")
		}
	}

	supplier, err := partner.NewSupplier(code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.Phone, req.Email, req.Address, req.Notes); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created", zap.String("code", supplier.Code), zap.String("name", supplier.Name))

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Update updates a supplier's contact details
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdatePartnerRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := supplier.Update(req.Name, req.Phone, req.Email, req.Address, req.Notes); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete removes a supplier. Suppliers on existing invoices cannot be
// deleted.
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.purchaseRefs.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return shared.NewDomainError("REFERENTIAL_CONFLICT", "Supplier is referenced by existing invoices")
	}

	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("supplier deleted", zap.String("code", supplier.Code))
	return nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves a paginated list of suppliers
func (s *SupplierService) List(ctx context.Context, filter PartnerListFilter) (*shared.Paginated[SupplierResponse], error) {
	domainFilter := buildPartnerFilter(filter)

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(ToSupplierResponses(suppliers), total, domainFilter.Page, domainFilter.PageSize)
	return &paginated, nil
}
