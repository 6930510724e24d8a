package query

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BSON renders the predicate as a MongoDB filter document over the plants
// collection. The search term is quoted so it matches literally.
func (p Predicate) BSON() bson.M {
	filter := bson.M{}

	if p.search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(p.search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"categories": pattern},
		}
	}

	if p.category != "" {
		filter["categories"] = bson.M{"$in": bson.A{p.category}}
	}

	// A document without the field is in stock.
	if p.inStockOnly {
		filter["inStock"] = bson.M{"$ne": false}
	}

	return filter
}
