package plans

import (
	"github.com/google/uuid"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

// applyRequest copia el request sobre p (escalares y colecciones completas).
func applyRequest(p *entity.Plan, req dto.PlanRequest) error {
	from, err := dto.ParseDate(req.ActiveFrom)
	if err != nil {
		return domain.Invalid("%v", err)
	}
	to, err := dto.ParseDate(req.ActiveTo)
	if err != nil {
		return domain.Invalid("%v", err)
	}
	p.Name = req.Name
	p.Description = req.Description
	p.MultiBranchAccess = req.MultiBranchAccess
	p.PlanType = req.PlanType
	p.Presale = req.Presale
	p.ActiveFrom = from
	p.ActiveTo = to
	p.FreeVisits = req.FreeVisits
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	p.Prices = make([]entity.PlanPrice, 0, len(req.Prices))
	for _, pr := range req.Prices {
		p.Prices = append(p.Prices, entity.PlanPrice{
			ID:          uuid.New().String(),
			Scheme:      pr.Scheme,
			BillingType: pr.BillingType,
			Price:       pr.Price,
			Visits:      pr.Visits,
		})
	}
	p.Restrictions = make([]entity.PlanRestriction, 0, len(req.Restrictions))
	for _, r := range req.Restrictions {
		pr := entity.PlanRestriction{ID: uuid.New().String(), Day: r.Day}
		if r.Start != "" {
			c, err := entity.ParseClockTime(r.Start)
			if err != nil {
				return domain.Invalid("%v", err)
			}
			pr.Start = &c
		}
		if r.End != "" {
			c, err := entity.ParseClockTime(r.End)
			if err != nil {
				return domain.Invalid("%v", err)
			}
			pr.End = &c
		}
		p.Restrictions = append(p.Restrictions, pr)
	}
	p.Services = make([]entity.PlanService, 0, len(req.Services))
	for _, s := range req.Services {
		p.Services = append(p.Services, entity.PlanService{
			ID:        uuid.New().String(),
			ServiceID: s.ServiceID,
			Price:     s.Price,
			Icon:      s.Icon,
		})
	}
	p.Benefits = make([]entity.PlanBenefit, 0, len(req.Benefits))
	for _, b := range req.Benefits {
		vf, err := dto.ParseDate(b.ValidFrom)
		if err != nil {
			return domain.Invalid("%v", err)
		}
		vt, err := dto.ParseDate(b.ValidTo)
		if err != nil {
			return domain.Invalid("%v", err)
		}
		p.Benefits = append(p.Benefits, entity.PlanBenefit{
			ID:        uuid.New().String(),
			BenefitID: b.BenefitID,
			ValidFrom: vf,
			ValidTo:   vt,
		})
	}
	p.Disciplines = make([]entity.PlanDiscipline, 0, len(req.Disciplines))
	for _, d := range req.Disciplines {
		p.Disciplines = append(p.Disciplines, entity.PlanDiscipline{
			ID:           uuid.New().String(),
			DisciplineID: d.DisciplineID,
			AccessType:   d.AccessType,
			Accesses:     d.Accesses,
		})
	}
	return nil
}

func pricesDTO(in []entity.PlanPrice) []dto.PlanPriceDTO {
	out := make([]dto.PlanPriceDTO, 0, len(in))
	for _, p := range in {
		out = append(out, dto.PlanPriceDTO{Scheme: p.Scheme, BillingType: p.BillingType, Price: p.Price, Visits: p.Visits})
	}
	return out
}

func restrictionsDTO(in []entity.PlanRestriction) []dto.PlanRestrictionDTO {
	out := make([]dto.PlanRestrictionDTO, 0, len(in))
	for _, r := range in {
		d := dto.PlanRestrictionDTO{Day: r.Day}
		if r.Start != nil {
			d.Start = r.Start.String()
		}
		if r.End != nil {
			d.End = r.End.String()
		}
		out = append(out, d)
	}
	return out
}

func servicesDTO(in []entity.PlanService) []dto.PlanServiceDTO {
	out := make([]dto.PlanServiceDTO, 0, len(in))
	for _, s := range in {
		out = append(out, dto.PlanServiceDTO{ServiceID: s.ServiceID, Price: s.Price, Icon: s.Icon})
	}
	return out
}

func benefitsDTO(in []entity.PlanBenefit) []dto.PlanBenefitDTO {
	out := make([]dto.PlanBenefitDTO, 0, len(in))
	for _, b := range in {
		out = append(out, dto.PlanBenefitDTO{
			BenefitID: b.BenefitID,
			ValidFrom: dto.FormatDate(b.ValidFrom),
			ValidTo:   dto.FormatDate(b.ValidTo),
		})
	}
	return out
}

func disciplinesDTO(in []entity.PlanDiscipline) []dto.PlanDisciplineDTO {
	out := make([]dto.PlanDisciplineDTO, 0, len(in))
	for _, d := range in {
		out = append(out, dto.PlanDisciplineDTO{DisciplineID: d.DisciplineID, AccessType: d.AccessType, Accesses: d.Accesses})
	}
	return out
}

// ToPlanResponse convierte el agregado al DTO.
func ToPlanResponse(p *entity.Plan) *dto.PlanResponse {
	return &dto.PlanResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		MultiBranchAccess: p.MultiBranchAccess,
		PlanType:          p.PlanType,
		Presale:           p.Presale,
		ActiveFrom:        dto.FormatDate(p.ActiveFrom),
		ActiveTo:          dto.FormatDate(p.ActiveTo),
		FreeVisits:        p.FreeVisits,
		IsActive:          p.IsActive,
		Prices:            pricesDTO(p.Prices),
		Restrictions:      restrictionsDTO(p.Restrictions),
		Services:          servicesDTO(p.Services),
		Benefits:          benefitsDTO(p.Benefits),
		Disciplines:       disciplinesDTO(p.Disciplines),
	}
}

// ToRevisionResponse convierte la revisión al DTO.
func ToRevisionResponse(r *entity.PlanRevision) *dto.PlanRevisionResponse {
	return &dto.PlanRevisionResponse{
		ID:                r.ID,
		PlanID:            r.PlanID,
		Version:           r.Version,
		Name:              r.Name,
		Description:       r.Description,
		MultiBranchAccess: r.MultiBranchAccess,
		PlanType:          r.PlanType,
		Presale:           r.Presale,
		FreeVisits:        r.FreeVisits,
		ValidFrom:         dto.FormatDate(r.ValidFrom),
		ValidTo:           dto.FormatDate(r.ValidTo),
		Prices:            pricesDTO(r.Prices),
		Restrictions:      restrictionsDTO(r.Restrictions),
		Services:          servicesDTO(r.Services),
		Benefits:          benefitsDTO(r.Benefits),
		Disciplines:       disciplinesDTO(r.Disciplines),
		CreatedAt:         r.CreatedAt,
	}
}

// ToEnrollmentResponse convierte el alta al DTO.
func ToEnrollmentResponse(e *entity.Enrollment) *dto.EnrollmentResponse {
	start := e.StartDate
	return &dto.EnrollmentResponse{
		ID:             e.ID,
		CustomerID:     e.CustomerID,
		PlanID:         e.PlanID,
		PlanRevisionID: e.PlanRevisionID,
		BranchID:       e.BranchID,
		StartDate:      dto.FormatDate(&start),
		EndDate:        dto.FormatDate(e.EndDate),
		Renewal:        e.Renewal,
		IsActive:       e.IsActive,
	}
}
