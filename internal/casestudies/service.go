package casestudies

import (
	"context"
	"errors"
	"strings"
	"time"

	"casestudy-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound    = errors.New("case study not found")
	ErrTitleExists = errors.New("case study already exists")
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

// Create persists a new case study. The uploaded section-image paths are
// assigned positionally: each descriptor flagged hasImage consumes the next
// path, or null once the supplied files run out.
func (s *Service) Create(ctx context.Context, in CreateInput) (CaseStudy, error) {
	exists, err := s.repo.ExistsByTitle(ctx, in.Title)
	if err != nil {
		return CaseStudy{}, err
	}
	if exists {
		return CaseStudy{}, ErrTitleExists
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = utils.Slugify(in.Title)
	}
	status := in.Status
	if status == "" {
		status = StatusDraft
	}

	body := make([]Section, 0, len(in.Sections))
	cursor := 0
	for _, raw := range in.Sections {
		var image *string
		if raw.HasImage {
			if cursor < len(in.SectionImages) {
				p := in.SectionImages[cursor]
				image = &p
			}
			cursor++
		}
		body = append(body, Section{
			Heading:     raw.Heading,
			Description: raw.Description,
			Image:       image,
			Lists:       normalizeLists(raw.Lists),
		})
	}

	now := time.Now().In(s.location)
	item := CaseStudy{
		ID:                 primitive.NewObjectID().Hex(),
		Title:              in.Title,
		Category:           in.Category,
		Slug:               slug,
		Description:        in.Description,
		ProjectDescription: in.ProjectDescription,
		Image:              in.Image,
		Status:             status,
		BodyData:           body,
		Seo:                in.Seo,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		// The pre-check is not atomic; the unique title index settles races.
		if mongo.IsDuplicateKeyError(err) {
			return CaseStudy{}, ErrTitleExists
		}
		return CaseStudy{}, err
	}
	return item, nil
}

// Update applies a partial update. Empty title/description leave the stored
// values untouched. When a section array is supplied the whole body is
// replaced: each slot first inherits the image stored at the same index,
// then hasImage slots consume new files while any remain.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (CaseStudy, error) {
	existing, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CaseStudy{}, ErrNotFound
		}
		return CaseStudy{}, err
	}

	set := bson.M{"updated_at": time.Now().In(s.location)}
	if in.Image != nil {
		set["image"] = *in.Image
	}
	if in.Title != "" {
		set["title"] = in.Title
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Sections != nil {
		set["body_data"] = mergeSections(existing.BodyData, in.Sections, in.SectionImages)
	}

	updated, err := s.repo.Update(ctx, existing.ID, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CaseStudy{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return CaseStudy{}, ErrTitleExists
		}
		return CaseStudy{}, err
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context) ([]CaseStudy, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (CaseStudy, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CaseStudy{}, ErrNotFound
		}
		return CaseStudy{}, err
	}
	return item, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (CaseStudy, error) {
	item, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CaseStudy{}, ErrNotFound
		}
		return CaseStudy{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// mergeSections rebuilds the body from the new descriptors. Image carry-over
// is by numeric slot, not logical section: descriptor i inherits old[i]'s
// image. Unlike create, the file cursor only advances when a new file is
// actually available.
func mergeSections(old []Section, descriptors []SectionInput, files []string) []Section {
	next := make([]Section, 0, len(descriptors))
	cursor := 0
	for i, raw := range descriptors {
		var image *string
		if i < len(old) {
			image = old[i].Image
		}
		if raw.HasImage && cursor < len(files) {
			p := files[cursor]
			image = &p
			cursor++
		}
		next = append(next, Section{
			Heading:     raw.Heading,
			Description: raw.Description,
			Image:       image,
			Lists:       normalizeLists(raw.Lists),
		})
	}
	return next
}

func normalizeLists(lists []string) []string {
	if lists == nil {
		return []string{}
	}
	return lists
}
