// Package seed loads the starter catalog into a plant store.
package seed

import (
	"context"
	"fmt"
	"time"

	"plant-store/internal/domain"
	"plant-store/internal/repository"

	"go.uber.org/zap"
)

// Plants returns the starter catalog
func Plants() []domain.Plant {
	return []domain.Plant{
		{
			Name:        "Snake Plant (Sansevieria)",
			Price:       299,
			Categories:  []string{"Indoor", "Air Purifying", "Low Maintenance"},
			InStock:     true,
			Description: "Perfect for beginners, tolerates low light and infrequent watering",
			Image:       "/snake-plant-sansevieria-in-pot.png",
		},
		{
			Name:        "Monstera Deliciosa",
			Price:       599,
			Categories:  []string{"Indoor", "Tropical"},
			InStock:     true,
			Description: "Stunning split-leaf plant that adds tropical vibes to any space",
			Image:       "/monstera-deliciosa-plant-with-split-leaves.png",
		},
		{
			Name:        "Peace Lily",
			Price:       399,
			Categories:  []string{"Indoor", "Air Purifying", "Flowering"},
			InStock:     true,
			Description: "Elegant white flowers and glossy green leaves, great air purifier",
			Image:       "/peace-lily-with-white-flowers.png",
		},
		{
			Name:        "Rubber Plant (Ficus Elastica)",
			Price:       449,
			Categories:  []string{"Indoor", "Air Purifying"},
			InStock:     true,
			Description: "Glossy, thick leaves make this a stunning statement plant",
			Image:       "/rubber-plant-ficus-elastica-glossy-leaves.png",
		},
		{
			Name:        "ZZ Plant (Zamioculcas Zamiifolia)",
			Price:       349,
			Categories:  []string{"Indoor", "Low Maintenance"},
			InStock:     true,
			Description: "Extremely low maintenance with glossy, waxy leaves",
			Image:       "/zz-plant-zamioculcas-zamiifolia.png",
		},
		{
			Name:        "Jade Plant",
			Price:       199,
			Categories:  []string{"Succulent", "Low Maintenance"},
			InStock:     true,
			Description: "Symbol of good luck and prosperity, very easy to care for",
			Image:       "/jade-plant-succulent-thick-leaves.png",
		},
		{
			Name:        "Aloe Vera",
			Price:       249,
			Categories:  []string{"Succulent", "Medicinal"},
			InStock:     true,
			Description: "Healing properties and easy care make this a must-have plant",
			Image:       "/aloe-vera-plant-medicinal-succulent.png",
		},
		{
			Name:        "Echeveria Mix",
			Price:       179,
			Categories:  []string{"Succulent"},
			InStock:     true,
			Description: "Beautiful rosette-shaped succulents in various colors",
			Image:       "/echeveria-succulent-rosette-colorful.png",
		},
		{
			Name:        "String of Pearls",
			Price:       299,
			Categories:  []string{"Succulent", "Hanging"},
			InStock:     true,
			Description: "Unique trailing succulent perfect for hanging baskets",
			Image:       "/string-of-pearls-succulent-trailing.png",
		},
		{
			Name:        "Haworthia",
			Price:       159,
			Categories:  []string{"Succulent", "Small"},
			InStock:     true,
			Description: "Small, spiky succulent perfect for desks and small spaces",
			Image:       "/haworthia-succulent-small-spiky.png",
		},
		{
			Name:        "Bougainvillea",
			Price:       399,
			Categories:  []string{"Outdoor", "Flowering", "Climbing"},
			InStock:     true,
			Description: "Vibrant flowering vine perfect for gardens and balconies",
			Image:       "/bougainvillea-flowering-vine-colorful.png",
		},
		{
			Name:        "Hibiscus",
			Price:       499,
			Categories:  []string{"Outdoor", "Flowering"},
			InStock:     true,
			Description: "Large, colorful flowers that bloom throughout the year",
			Image:       "/hibiscus-large-colorful-flowers.png",
		},
		{
			Name:        "Marigold",
			Price:       99,
			Categories:  []string{"Outdoor", "Flowering", "Annual"},
			InStock:     true,
			Description: "Bright orange and yellow flowers, great for borders",
			Image:       "/marigold-orange-yellow-flowers.png",
		},
		{
			Name:        "Jasmine",
			Price:       349,
			Categories:  []string{"Outdoor", "Flowering", "Fragrant"},
			InStock:     true,
			Description: "Intensely fragrant white flowers, perfect for evening gardens",
			Image:       "/jasmine-white-fragrant-flowers.png",
		},
		{
			Name:        "Boston Fern",
			Price:       299,
			Categories:  []string{"Indoor", "Air Purifying", "Hanging"},
			InStock:     true,
			Description: "Lush, feathery fronds that purify the air naturally",
			Image:       "/boston-fern-feathery-fronds.png",
		},
	}
}

// Run replaces every plant in repo with the starter catalog and returns
// how many plants were inserted.
func Run(ctx context.Context, repo repository.PlantRepository, logger *zap.Logger) (int, error) {
	removed, err := repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear plants: %w", err)
	}
	logger.Info("Cleared existing plants", zap.Int64("removed", removed))

	now := time.Now().UTC()
	plants := Plants()
	for i := range plants {
		plants[i].CreatedAt = now
		plants[i].UpdatedAt = now
		if err := repo.Create(ctx, &plants[i]); err != nil {
			return i, fmt.Errorf("failed to insert %q: %w", plants[i].Name, err)
		}
	}

	logger.Info("Seeded plants", zap.Int("inserted", len(plants)))
	return len(plants), nil
}
