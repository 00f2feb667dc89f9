package livesync

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFeed adapts a database change stream to the Event contract.
type MongoFeed struct {
	stream *mongo.ChangeStream
	cancel context.CancelFunc
	events chan Event
	log    *logrus.Entry
}

func NewMongoFeed(client *mongo.Client, database string) (*MongoFeed, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"ns.coll": bson.M{"$in": bson.A{TableKaat, TableSettlement, TableRate}},
		}}},
	}
	stream, err := client.Database(database).Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, err
	}

	f := &MongoFeed{
		stream: stream,
		cancel: cancel,
		events: make(chan Event, 64),
		log:    logrus.WithField("component", "livesync_mongo"),
	}
	go f.run(ctx)
	return f, nil
}

type changeDoc struct {
	OperationType string `bson:"operationType"`
	Ns            struct {
		Coll string `bson:"coll"`
	} `bson:"ns"`
	DocumentKey  bson.M `bson:"documentKey"`
	FullDocument bson.M `bson:"fullDocument"`
}

func (f *MongoFeed) run(ctx context.Context) {
	defer close(f.events)
	for f.stream.Next(ctx) {
		var doc changeDoc
		if err := f.stream.Decode(&doc); err != nil {
			f.log.WithError(err).Warn("dropping undecodable change event")
			continue
		}
		e, ok := translateChange(&doc)
		if !ok {
			continue
		}
		select {
		case f.events <- e:
		case <-ctx.Done():
			return
		}
	}
	if err := f.stream.Err(); err != nil && ctx.Err() == nil {
		f.log.WithError(err).Error("change stream terminated")
	}
}

func translateChange(doc *changeDoc) (Event, bool) {
	e := Event{Table: doc.Ns.Coll}

	switch doc.OperationType {
	case "insert":
		e.Op = OpInsert
	case "update", "replace":
		e.Op = OpUpdate
	case "delete":
		e.Op = OpDelete
	default:
		return Event{}, false
	}

	if key, ok := doc.DocumentKey["_id"]; ok {
		if s, ok := key.(string); ok {
			e.Key = s
		}
	}

	if doc.FullDocument != nil {
		full := normalizeDoc(doc.FullDocument, doc.Ns.Coll)
		if challan, ok := full["challan_no"].(string); ok {
			e.ChallanNo = challan
		}
		if cityID, ok := full["to_city_id"].(int64); ok {
			e.CityID = cityID
		}
		record, err := json.Marshal(full)
		if err != nil {
			return Event{}, false
		}
		e.Record = record
	}
	return e, true
}

// normalizeDoc maps mongo document shapes onto the wire shapes the reducer
// reads: _id back to its domain key and Decimal128 values to plain strings.
func normalizeDoc(doc bson.M, coll string) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == "_id" {
			switch coll {
			case TableKaat:
				k = "gr_no"
			case TableSettlement:
				k = "id"
			default:
				k = "id"
			}
		}
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.Decimal128:
		return t.String()
	case primitive.DateTime:
		return t.Time().UTC()
	case bson.M:
		return normalizeDoc(t, "")
	case bson.A:
		arr := make([]interface{}, len(t))
		for i, item := range t {
			arr[i] = normalizeValue(item)
		}
		return arr
	case int32:
		return int64(t)
	default:
		return v
	}
}

func (f *MongoFeed) Events() <-chan Event { return f.events }

func (f *MongoFeed) Close() error {
	f.cancel()
	return f.stream.Close(context.Background())
}
