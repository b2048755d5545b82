package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerRecord is implemented by every content table that can hold assets.
type OwnerRecord interface {
	OwnerKind() OwnerKind
	GetID() uint64
	DisplayName() string
	TableName() string
}

// NewOwnerRecord returns an empty record for kind, suitable as a gorm model.
func NewOwnerRecord(kind OwnerKind) (OwnerRecord, error) {
	switch kind {
	case OwnerHospital:
		return &Hospital{}, nil
	case OwnerDoctor:
		return &Doctor{}, nil
	case OwnerTreatment:
		return &Treatment{}, nil
	case OwnerOffer:
		return &Offer{}, nil
	case OwnerSlider:
		return &Slider{}, nil
	case OwnerBlog:
		return &Blog{}, nil
	}
	return nil, ErrInvalidOwnerKind
}

// Hospital represents a partner hospital
type Hospital struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"type:varchar(300);not null;index" json:"name"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	Location        string    `gorm:"type:varchar(500)" json:"location,omitempty"`
	Address         string    `gorm:"type:text" json:"address,omitempty"`
	Phone           string    `gorm:"type:varchar(80)" json:"phone,omitempty"`
	Email           string    `gorm:"type:varchar(300)" json:"email,omitempty"`
	Website         string    `gorm:"type:varchar(500)" json:"website,omitempty"`
	EstablishedYear *int      `json:"established_year,omitempty"`
	BedCount        *int      `json:"bed_count,omitempty"`
	Specializations string    `gorm:"type:text" json:"specializations,omitempty"`
	IsActive        *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Hospital) TableName() string      { return "hospitals" }
func (Hospital) OwnerKind() OwnerKind   { return OwnerHospital }
func (h *Hospital) GetID() uint64       { return h.ID }
func (h *Hospital) DisplayName() string { return h.Name }

// Doctor represents a listed practitioner. HospitalID is the primary hospital.
type Doctor struct {
	ID               uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string          `gorm:"type:varchar(250);not null;index" json:"name"`
	Designation      string          `gorm:"type:varchar(200)" json:"designation,omitempty"`
	Specialization   string          `gorm:"type:varchar(200);index" json:"specialization,omitempty"`
	ShortDescription string          `gorm:"type:varchar(500)" json:"short_description,omitempty"`
	Description      string          `gorm:"type:text" json:"description,omitempty"`
	ExperienceYears  *int            `json:"experience_years,omitempty"`
	ConsultancyFee   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"consultancy_fee"`
	HospitalID       *uint64         `gorm:"index" json:"hospital_id,omitempty"`
	Location         string          `gorm:"type:varchar(500)" json:"location,omitempty"`
	IsActive         *bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string      { return "doctors" }
func (Doctor) OwnerKind() OwnerKind   { return OwnerDoctor }
func (d *Doctor) GetID() uint64       { return d.ID }
func (d *Doctor) DisplayName() string { return d.Name }

// Treatment represents a procedure with an optional price range
type Treatment struct {
	ID               uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string           `gorm:"type:varchar(300);not null;index" json:"name"`
	TreatmentType    string           `gorm:"type:varchar(100);index" json:"treatment_type,omitempty"`
	ShortDescription string           `gorm:"type:varchar(500)" json:"short_description,omitempty"`
	Description      string           `gorm:"type:text" json:"description,omitempty"`
	PriceMin         *decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_min,omitempty"`
	PriceMax         *decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_max,omitempty"`
	HospitalID       *uint64          `gorm:"index" json:"hospital_id,omitempty"`
	DoctorID         *uint64          `gorm:"index" json:"doctor_id,omitempty"`
	Location         string           `gorm:"type:varchar(500)" json:"location,omitempty"`
	IsActive         *bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Treatment) TableName() string      { return "treatments" }
func (Treatment) OwnerKind() OwnerKind   { return OwnerTreatment }
func (t *Treatment) GetID() uint64       { return t.ID }
func (t *Treatment) DisplayName() string { return t.Name }

// Offer represents a time-boxed discount or free camp
type Offer struct {
	ID                 uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string           `gorm:"type:varchar(300);not null;index" json:"name"`
	Description        string           `gorm:"type:text" json:"description,omitempty"`
	TreatmentType      string           `gorm:"type:varchar(100);index" json:"treatment_type,omitempty"`
	Location           string           `gorm:"type:varchar(500);index" json:"location,omitempty"`
	StartDate          *time.Time       `gorm:"index" json:"start_date,omitempty"`
	EndDate            *time.Time       `gorm:"index" json:"end_date,omitempty"`
	DiscountPercentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount_percentage,omitempty"`
	IsFreeCamp         bool             `gorm:"not null;default:false" json:"is_free_camp"`
	TreatmentID        *uint64          `gorm:"index" json:"treatment_id,omitempty"`
	IsActive           *bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt          time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Offer) TableName() string      { return "offers" }
func (Offer) OwnerKind() OwnerKind   { return OwnerOffer }
func (o *Offer) GetID() uint64       { return o.ID }
func (o *Offer) DisplayName() string { return o.Name }

// Slider is a homepage banner
type Slider struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(250);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Link        string    `gorm:"type:varchar(1000)" json:"link,omitempty"`
	Tags        string    `gorm:"type:varchar(500)" json:"tags,omitempty"`
	IsActive    *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Slider) TableName() string      { return "sliders" }
func (Slider) OwnerKind() OwnerKind   { return OwnerSlider }
func (s *Slider) GetID() uint64       { return s.ID }
func (s *Slider) DisplayName() string { return s.Title }

// Blog is an article. IsActive doubles as the published flag.
type Blog struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"type:varchar(500);not null;index" json:"title"`
	Slug        string     `gorm:"type:varchar(600);not null;uniqueIndex" json:"slug"`
	Excerpt     string     `gorm:"type:text" json:"excerpt,omitempty"`
	Content     string     `gorm:"type:text" json:"content,omitempty"`
	Category    string     `gorm:"type:varchar(200);index" json:"category,omitempty"`
	Tags        string     `gorm:"type:varchar(1000)" json:"tags,omitempty"`
	AuthorName  string     `gorm:"type:varchar(200)" json:"author_name,omitempty"`
	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`
	IsActive    *bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Blog) TableName() string      { return "blogs" }
func (Blog) OwnerKind() OwnerKind   { return OwnerBlog }
func (b *Blog) GetID() uint64       { return b.ID }
func (b *Blog) DisplayName() string { return b.Title }
