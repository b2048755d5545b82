package converter

import (
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/domain/entity"
)

func OwnerToResponse(record entity.OwnerRecord) *dto.OwnerResponse {
	if record == nil {
		return nil
	}
	return &dto.OwnerResponse{
		OwnerType:  string(record.OwnerKind()),
		ID:         record.GetID(),
		Name:       record.DisplayName(),
		Attributes: record,
	}
}

func OwnersToResponses(records []entity.OwnerRecord) []dto.OwnerResponse {
	responses := make([]dto.OwnerResponse, len(records))
	for i, record := range records {
		responses[i] = *OwnerToResponse(record)
	}
	return responses
}

// ApplyOwnerRequest copies the non-nil fields of req that apply to the
// record's kind onto record.
func ApplyOwnerRequest(record entity.OwnerRecord, req *dto.OwnerRequest) {
	switch r := record.(type) {
	case *entity.Hospital:
		setString(&r.Name, req.Name)
		setString(&r.Description, req.Description)
		setString(&r.Location, req.Location)
		setString(&r.Address, req.Address)
		setString(&r.Phone, req.Phone)
		setString(&r.Email, req.Email)
		setString(&r.Website, req.Website)
		setString(&r.Specializations, req.Specializations)
		if req.EstablishedYear != nil {
			r.EstablishedYear = req.EstablishedYear
		}
		if req.BedCount != nil {
			r.BedCount = req.BedCount
		}
		setBool(&r.IsActive, req.IsActive)
	case *entity.Doctor:
		setString(&r.Name, req.Name)
		setString(&r.Designation, req.Designation)
		setString(&r.Specialization, req.Specialization)
		setString(&r.ShortDescription, req.ShortDescription)
		setString(&r.Description, req.Description)
		setString(&r.Location, req.Location)
		if req.ExperienceYears != nil {
			r.ExperienceYears = req.ExperienceYears
		}
		if req.ConsultancyFee != nil {
			r.ConsultancyFee = *req.ConsultancyFee
		}
		if req.HospitalID != nil {
			r.HospitalID = req.HospitalID
		}
		setBool(&r.IsActive, req.IsActive)
	case *entity.Treatment:
		setString(&r.Name, req.Name)
		setString(&r.TreatmentType, req.TreatmentType)
		setString(&r.ShortDescription, req.ShortDescription)
		setString(&r.Description, req.Description)
		setString(&r.Location, req.Location)
		if req.PriceMin != nil {
			r.PriceMin = req.PriceMin
		}
		if req.PriceMax != nil {
			r.PriceMax = req.PriceMax
		}
		if req.HospitalID != nil {
			r.HospitalID = req.HospitalID
		}
		if req.DoctorID != nil {
			r.DoctorID = req.DoctorID
		}
		setBool(&r.IsActive, req.IsActive)
	case *entity.Offer:
		setString(&r.Name, req.Name)
		setString(&r.Description, req.Description)
		setString(&r.TreatmentType, req.TreatmentType)
		setString(&r.Location, req.Location)
		if req.StartDate != nil {
			r.StartDate = req.StartDate
		}
		if req.EndDate != nil {
			r.EndDate = req.EndDate
		}
		if req.DiscountPercentage != nil {
			r.DiscountPercentage = req.DiscountPercentage
		}
		if req.IsFreeCamp != nil {
			r.IsFreeCamp = *req.IsFreeCamp
		}
		if req.TreatmentID != nil {
			r.TreatmentID = req.TreatmentID
		}
		setBool(&r.IsActive, req.IsActive)
	case *entity.Slider:
		setString(&r.Title, req.Title)
		setString(&r.Description, req.Description)
		setString(&r.Link, req.Link)
		setString(&r.Tags, req.Tags)
		setBool(&r.IsActive, req.IsActive)
	case *entity.Blog:
		setString(&r.Title, req.Title)
		setString(&r.Slug, req.Slug)
		setString(&r.Excerpt, req.Excerpt)
		setString(&r.Content, req.Content)
		setString(&r.Category, req.Category)
		setString(&r.Tags, req.Tags)
		setString(&r.AuthorName, req.AuthorName)
		if req.PublishedAt != nil {
			r.PublishedAt = req.PublishedAt
		}
		setBool(&r.IsActive, req.IsActive)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst **bool, src *bool) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
