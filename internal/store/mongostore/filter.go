package mongostore

import (
	"regexp"

	storebooks "github.com/eldieng/Fawsayni-Tech/internal/store/books"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bookFilter renders f as a query document. Search is matched literally.
func bookFilter(f storebooks.Filter) bson.D {
	q := bson.D{}
	if f.Genre != "" {
		q = append(q, bson.E{Key: "genre", Value: f.Genre})
	}
	if f.Available != nil {
		q = append(q, bson.E{Key: "available", Value: *f.Available})
	}
	if f.Owner != "" {
		oid, err := primitive.ObjectIDFromHex(f.Owner)
		if err != nil {
			// an owner id that cannot exist matches nothing
			q = append(q, bson.E{Key: "_id", Value: bson.D{{Key: "$exists", Value: false}}})
		} else {
			q = append(q, bson.E{Key: "user", Value: oid})
		}
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q = append(q, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "author", Value: re}},
			bson.D{{Key: "description", Value: re}},
		}})
	}
	return q
}

// bookSort maps API sort keys onto document fields, which share their names.
func bookSort(keys []storebooks.SortKey) bson.D {
	out := bson.D{}
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		out = append(out, bson.E{Key: k.Field, Value: dir})
	}
	if len(out) == 0 {
		out = bson.D{{Key: storebooks.FieldCreatedAt, Value: -1}, {Key: storebooks.FieldID, Value: 1}}
	}
	return out
}
