package discount

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Motivos por los que un código no es usable.
const (
	ReasonNotFound  = "código no encontrado"
	ReasonInactive  = "código inactivo"
	ReasonExhausted = "código agotado"
)

var hundred = decimal.NewFromInt(100)

// RegistryUseCase administra códigos de descuento: alta, validación y canje.
type RegistryUseCase struct {
	codeRepo repository.DiscountCodeRepository
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewRegistryUseCase construye el caso de uso.
func NewRegistryUseCase(codeRepo repository.DiscountCodeRepository, txRunner TxRunner, log *logger.Logger) *RegistryUseCase {
	return &RegistryUseCase{codeRepo: codeRepo, txRunner: txRunner, log: log, now: time.Now}
}

// Create normaliza el código, aplica defaults (Remaining = Capacity si no se indica) y lo persiste.
func (uc *RegistryUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateDiscountCodeRequest) (*entity.DiscountCode, error) {
	now := uc.now()
	code := &entity.DiscountCode{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      entity.NormalizeCode(in.Code),
		Kind:      in.Kind,
		Value:     in.Value,
		Capacity:  in.Capacity,
		Remaining: in.Capacity,
		IsActive:  true,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Remaining != nil && *in.Remaining > 0 {
		code.Remaining = *in.Remaining
	}
	if in.IsActive != nil {
		code.IsActive = *in.IsActive
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := uc.codeRepo.Create(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

func validateCode(c *entity.DiscountCode) error {
	if c.Code == "" {
		return domain.Invalid("el código es requerido")
	}
	switch c.Kind {
	case entity.DiscountKindPercent:
		if !c.Value.IsPositive() || c.Value.GreaterThan(hundred) {
			return domain.Invalid("el porcentaje debe estar entre 0 y 100")
		}
	case entity.DiscountKindFixedAmount:
		if c.Value.IsNegative() {
			return domain.Invalid("el monto no puede ser negativo")
		}
	default:
		return domain.Invalid("tipo de descuento inválido: %s", c.Kind)
	}
	if c.Capacity < 0 || c.Remaining < 0 {
		return domain.Invalid("la cantidad no puede ser negativa")
	}
	if c.Remaining > c.Capacity {
		return domain.Invalid("los usos restantes no pueden exceder la cantidad")
	}
	return nil
}

// Validate indica si el código es usable sin consumir usos. Código inexistente, inactivo
// o agotado no es error: se responde Valid=false con el motivo.
// Con subtotal calcula la rebaja y el total final.
func (uc *RegistryUseCase) Validate(ctx context.Context, companyID, code string, subtotal *decimal.Decimal) (*dto.ValidateDiscountResponse, error) {
	normalized := entity.NormalizeCode(code)
	resp := &dto.ValidateDiscountResponse{Code: normalized}
	if normalized == "" {
		resp.Reason = ReasonNotFound
		return resp, nil
	}
	dc, err := uc.codeRepo.GetByCode(ctx, companyID, normalized)
	if err != nil {
		return nil, err
	}
	if dc != nil {
		resp.Kind = dc.Kind
		resp.Value = dc.Value
		resp.Remaining = dc.Remaining
	}
	if reason := unusableReason(dc); reason != "" {
		resp.Reason = reason
		return resp, nil
	}
	resp.Valid = true
	if subtotal != nil {
		original := *subtotal
		rebate := dc.Rebate(original)
		final := decimal.Max(original.Sub(rebate), decimal.Zero).Round(2)
		resp.OriginalTotal = &original
		resp.DiscountAmount = &rebate
		resp.FinalTotal = &final
	}
	return resp, nil
}

// Redeem consume un uso en su propia transacción y devuelve los usos restantes.
// Devuelve domain.ErrCodeNotUsable si el código no existe, está inactivo o agotado.
func (uc *RegistryUseCase) Redeem(ctx context.Context, companyID, code string) (int, error) {
	var remaining int
	err := uc.txRunner.RunDiscount(ctx, func(codeRepo repository.DiscountCodeRepository) error {
		dc, err := uc.LockInTx(ctx, codeRepo, companyID, code)
		if err != nil {
			return err
		}
		remaining, err = uc.RedeemInTx(ctx, codeRepo, dc)
		return err
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("code", entity.NormalizeCode(code)).
		Int("remaining", remaining).
		Msg("código de descuento canjeado")
	return remaining, nil
}

// LockInTx bloquea el código con la transacción del llamador y verifica que sea usable.
// codeRepo debe estar atado a esa transacción.
func (uc *RegistryUseCase) LockInTx(ctx context.Context, codeRepo repository.DiscountCodeRepository, companyID, code string) (*entity.DiscountCode, error) {
	normalized := entity.NormalizeCode(code)
	dc, err := codeRepo.GetByCodeForUpdate(ctx, companyID, normalized)
	if err != nil {
		return nil, err
	}
	if reason := unusableReason(dc); reason != "" {
		return nil, &domain.CodeNotUsableError{Code: normalized, Reason: reason}
	}
	return dc, nil
}

// unusableReason motivo por el que dc no se puede canjear; vacío si dc.Usable().
func unusableReason(dc *entity.DiscountCode) string {
	switch {
	case dc.Usable():
		return ""
	case dc == nil:
		return ReasonNotFound
	case !dc.IsActive:
		return ReasonInactive
	default:
		return ReasonExhausted
	}
}

// RedeemInTx decrementa el contador de un código ya bloqueado con LockInTx.
// No confirma: el commit lo hace el dueño de la transacción.
func (uc *RegistryUseCase) RedeemInTx(ctx context.Context, codeRepo repository.DiscountCodeRepository, dc *entity.DiscountCode) (int, error) {
	remaining, err := codeRepo.Decrement(ctx, dc.ID)
	if err != nil {
		return 0, err
	}
	dc.Remaining = remaining
	return remaining, nil
}

// ToResponse convierte la entidad al DTO de respuesta.
func ToResponse(c *entity.DiscountCode) *dto.DiscountCodeResponse {
	return &dto.DiscountCodeResponse{
		ID:        c.ID,
		Code:      c.Code,
		Kind:      c.Kind,
		Value:     c.Value,
		Capacity:  c.Capacity,
		Remaining: c.Remaining,
		IsActive:  c.IsActive,
	}
}
