package casestudies

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// CaseStudy is the persisted record. Section order in BodyData is display
// order and is preserved as submitted.
type CaseStudy struct {
	ID                 string       `bson:"_id,omitempty" json:"id"`
	Title              string       `bson:"title" json:"title"`
	Category           string       `bson:"category,omitempty" json:"category,omitempty"`
	Slug               string       `bson:"slug,omitempty" json:"slug,omitempty"`
	Description        string       `bson:"description,omitempty" json:"description,omitempty"`
	ProjectDescription string       `bson:"project_description,omitempty" json:"projectDescription,omitempty"`
	Image              *string      `bson:"image" json:"image"`
	Status             string       `bson:"status" json:"status"`
	BodyData           []Section    `bson:"body_data" json:"bodyData"`
	Seo                *SeoMetadata `bson:"seo,omitempty" json:"seo,omitempty"`
	UserID             *string      `bson:"user_id,omitempty" json:"userId,omitempty"`
	CreatedAt          time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time    `bson:"updated_at" json:"updatedAt"`
}

type Section struct {
	Heading     string   `bson:"heading,omitempty" json:"heading,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Image       *string  `bson:"image" json:"image"`
	Lists       []string `bson:"lists" json:"lists"`
}

type SeoMetadata struct {
	Title         string   `bson:"title,omitempty" json:"title,omitempty"`
	Description   string   `bson:"description,omitempty" json:"description,omitempty"`
	Keywords      []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
	CanonicalLink string   `bson:"canonical_link,omitempty" json:"canonicalLink,omitempty"`
	FocusKeyword  string   `bson:"focus_keyword,omitempty" json:"focusKeyword,omitempty"`
}

// SectionInput is the raw per-section descriptor submitted by the editor
// frontend; HasImage flags which sections consume one of the uploaded
// section-image files, in declaration order.
type SectionInput struct {
	Heading     string   `json:"heading"`
	Description string   `json:"description"`
	Lists       []string `json:"lists"`
	HasImage    bool     `json:"hasImage"`
}

// CreateRequest carries the plain form fields of the create call.
type CreateRequest struct {
	Title              string `validate:"required"`
	Category           string
	Slug               string
	Description        string
	ProjectDescription string
	Status             string `validate:"omitempty,oneof=draft published archived"`
}

// CreateInput is what the service sees once parsing and uploads are done:
// the image references are already stable paths.
type CreateInput struct {
	CreateRequest
	Sections      []SectionInput
	Seo           *SeoMetadata
	Image         *string
	SectionImages []string
}

// UpdateInput mirrors the partial-update contract. Zero-valued Title and
// Description mean "leave untouched"; a nil Sections slice means the stored
// body data is kept as is.
type UpdateInput struct {
	Title         string
	Description   string
	Sections      []SectionInput
	Image         *string
	SectionImages []string
}
