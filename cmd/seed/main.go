package main

import (
	"context"
	"log"
	"time"

	"casestudy-backend/internal/casestudies"
	"casestudy-backend/internal/config"
	"casestudy-backend/internal/db"
	"casestudy-backend/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedCaseStudy struct {
	Title       string
	Category    string
	Description string
	Status      string
	Sections    []casestudies.Section
	Seo         *casestudies.SeoMetadata
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	samples := []seedCaseStudy{
		{
			Title:       "E-commerce replatforming for a regional retailer",
			Category:    "Digital",
			Description: "Migration of a legacy storefront to a headless stack.",
			Status:      casestudies.StatusPublished,
			Sections: []casestudies.Section{
				{
					Heading:     "The challenge",
					Description: "Page loads above four seconds and a checkout abandonment rate of 70%.",
					Lists:       []string{"Legacy monolith", "No mobile support"},
				},
				{
					Heading:     "What we delivered",
					Description: "A headless storefront with server-side rendering.",
					Lists:       []string{"Sub-second page loads", "Checkout conversion up 22%"},
				},
			},
			Seo: &casestudies.SeoMetadata{
				Title:        "E-commerce replatforming case study",
				Description:  "How we rebuilt a regional retailer's storefront.",
				Keywords:     []string{"e-commerce", "replatforming"},
				FocusKeyword: "replatforming",
			},
		},
		{
			Title:       "Analytics dashboard for a logistics operator",
			Category:    "Data",
			Description: "Real-time shipment visibility across three warehouses.",
			Status:      casestudies.StatusDraft,
			Sections: []casestudies.Section{
				{
					Heading:     "Context",
					Description: "Dispatchers worked from hourly CSV exports.",
					Lists:       []string{},
				},
			},
		},
	}

	now := time.Now().In(cfg.Timezone)
	for _, sample := range samples {
		doc := casestudies.CaseStudy{
			ID:          primitive.NewObjectID().Hex(),
			Title:       sample.Title,
			Category:    sample.Category,
			Slug:        utils.Slugify(sample.Title),
			Description: sample.Description,
			Status:      sample.Status,
			BodyData:    sample.Sections,
			Seo:         sample.Seo,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := cols.CaseStudies.UpdateOne(
			ctx,
			bson.M{"title": sample.Title},
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Fatalf("seed %q: %v", sample.Title, err)
		}
		if res.UpsertedCount > 0 {
			log.Printf("seeded %q", sample.Title)
		} else {
			log.Printf("skipped %q (already present)", sample.Title)
		}
	}
}
