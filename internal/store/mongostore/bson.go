package mongostore

import (
	"strconv"
	"time"

	"floor-backend/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func buildFilter(q store.Query) bson.M {
	filter := bson.M{}
	for _, f := range q.Where {
		filter[f.Field] = matchValue(f.Value)
	}
	if q.Range != nil {
		filter[q.Range.Field] = bson.M{
			"$gte": q.Range.From.UTC(),
			"$lt":  q.Range.To.UTC(),
		}
	}
	return filter
}

// matchValue widens a text filter to also match the bool or number it spells
func matchValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	alts := bson.A{s}
	switch s {
	case "true":
		alts = append(alts, true)
	case "false":
		alts = append(alts, false)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		alts = append(alts, n)
	}
	if len(alts) == 1 {
		return s
	}
	return bson.M{"$in": alts}
}

func findOptions(q store.Query) *options.FindOptions {
	sort := bson.D{}
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: q.OrderBy, Value: dir})
	}
	sort = append(sort, bson.E{Key: createdField, Value: 1}, bson.E{Key: "_id", Value: 1})

	opts := options.Find().SetSort(sort)
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}

func toBSON(id string, fields map[string]any) bson.M {
	doc := bson.M{"_id": id, createdField: time.Now().UTC()}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		if t, ok := v.(*time.Time); ok && t == nil {
			doc[k] = nil
			continue
		}
		doc[k] = v
	}
	return doc
}

func fromBSON(raw bson.M) store.Document {
	doc := store.Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case "_id":
			if id, ok := v.(string); ok {
				doc.ID = id
			}
		case createdField:
		default:
			doc.Fields[k] = plain(v)
		}
	}
	return doc
}

// plain converts driver types into the values the rest of the code expects
func plain(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case bson.M:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = plain(inner)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = plain(inner)
		}
		return out
	}
	return v
}
