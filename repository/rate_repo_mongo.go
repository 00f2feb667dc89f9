package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/move-sure/ss-transport-sub002/models"
)

const mongoDatabase = "sstransport"

type MongoRateRepo struct {
	DB *mongo.Client
}

func NewMongoRateRepo(db *mongo.Client) *MongoRateRepo {
	return &MongoRateRepo{DB: db}
}

type mongoRateDoc struct {
	ID                  int64                `bson:"_id"`
	TransportID         int64                `bson:"transport_id"`
	ToCityID            int64                `bson:"to_city_id"`
	RateType            string               `bson:"rate_type"`
	RatePerKg           primitive.Decimal128 `bson:"rate_per_kg"`
	RatePerPkg          primitive.Decimal128 `bson:"rate_per_pkg"`
	MinCharge           primitive.Decimal128 `bson:"min_charge"`
	DocumentationCharge primitive.Decimal128 `bson:"documentation_charge"`
	EwayBillCharge      primitive.Decimal128 `bson:"eway_bill_charge"`
	LabourCharge        primitive.Decimal128 `bson:"labour_charge"`
	OtherCharge         primitive.Decimal128 `bson:"other_charge"`
	IsActive            bool                 `bson:"is_active"`
	CreatedAt           time.Time            `bson:"created_at"`
	UpdatedAt           *time.Time           `bson:"updated_at"`
}

func (d *mongoRateDoc) toModel() models.RateOffer {
	return models.RateOffer{
		ID:                  d.ID,
		TransportID:         d.TransportID,
		ToCityID:            d.ToCityID,
		RateType:            d.RateType,
		RatePerKg:           fromDecimal128(d.RatePerKg),
		RatePerPkg:          fromDecimal128(d.RatePerPkg),
		MinCharge:           fromDecimal128(d.MinCharge),
		DocumentationCharge: fromDecimal128(d.DocumentationCharge),
		EwayBillCharge:      fromDecimal128(d.EwayBillCharge),
		LabourCharge:        fromDecimal128(d.LabourCharge),
		OtherCharge:         fromDecimal128(d.OtherCharge),
		IsActive:            d.IsActive,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

// resolveCarriers attaches transport name and home city to each offer.
func (r *MongoRateRepo) resolveCarriers(ctx context.Context, docs []mongoRateDoc) ([]*models.ResolvedRate, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	db := r.DB.Database(mongoDatabase)

	transportIDs := make([]int64, 0, len(docs))
	for _, d := range docs {
		transportIDs = append(transportIDs, d.TransportID)
	}
	cur, err := db.Collection("transport").Find(ctx, bson.M{"_id": bson.M{"$in": transportIDs}})
	if err != nil {
		return nil, err
	}
	type transportDoc struct {
		ID            int64  `bson:"_id"`
		TransportName string `bson:"transport_name"`
		CityID        *int64 `bson:"city_id"`
	}
	var transports []transportDoc
	if err := cur.All(ctx, &transports); err != nil {
		return nil, err
	}
	transportByID := make(map[int64]transportDoc, len(transports))
	cityIDs := make([]int64, 0, len(transports))
	for _, t := range transports {
		transportByID[t.ID] = t
		if t.CityID != nil {
			cityIDs = append(cityIDs, *t.CityID)
		}
	}

	cityByID := make(map[int64]string)
	if len(cityIDs) > 0 {
		cur, err := db.Collection("cities").Find(ctx, bson.M{"_id": bson.M{"$in": cityIDs}})
		if err != nil {
			return nil, err
		}
		var cities []models.City
		if err := cur.All(ctx, &cities); err != nil {
			return nil, err
		}
		for _, c := range cities {
			cityByID[c.ID] = c.CityName
		}
	}

	result := make([]*models.ResolvedRate, 0, len(docs))
	for _, d := range docs {
		rr := &models.ResolvedRate{RateOffer: d.toModel()}
		if t, ok := transportByID[d.TransportID]; ok {
			rr.TransportName = t.TransportName
			if t.CityID != nil {
				rr.TransportCity = cityByID[*t.CityID]
			}
		}
		result = append(result, rr)
	}
	return result, nil
}

func (r *MongoRateRepo) findRates(filter bson.M) ([]*models.ResolvedRate, error) {
	ctx := context.Background()
	cur, err := r.DB.Database(mongoDatabase).Collection("transport_hub_rate").
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "to_city_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []mongoRateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.resolveCarriers(ctx, docs)
}

func (r *MongoRateRepo) GetRatesForCity(cityID int64) ([]*models.ResolvedRate, error) {
	return r.findRates(bson.M{"to_city_id": cityID, "is_active": true})
}

func (r *MongoRateRepo) GetRatesForCities(cityIDs []int64) ([]*models.ResolvedRate, error) {
	var result []*models.ResolvedRate
	for _, chunk := range chunkInt64s(cityIDs, keyBatchSize) {
		rates, err := r.findRates(bson.M{"to_city_id": bson.M{"$in": chunk}, "is_active": true})
		if err != nil {
			return nil, err
		}
		result = append(result, rates...)
	}
	return result, nil
}

func (r *MongoRateRepo) GetRateByID(id int64) (*models.ResolvedRate, error) {
	rates, err := r.findRates(bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, nil
	}
	return rates[0], nil
}
