package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/move-sure/ss-transport-sub002/models"
)

type MongoKaatRepo struct {
	DB *mongo.Client
}

func NewMongoKaatRepo(db *mongo.Client) *MongoKaatRepo {
	return &MongoKaatRepo{DB: db}
}

type mongoKaatDoc struct {
	GRNo             string               `bson:"_id"`
	ChallanNo        string               `bson:"challan_no"`
	RateID           *int64               `bson:"rate_id"`
	RateType         string               `bson:"rate_type"`
	RatePerKg        primitive.Decimal128 `bson:"rate_per_kg"`
	RatePerPkg       primitive.Decimal128 `bson:"rate_per_pkg"`
	Kaat             primitive.Decimal128 `bson:"kaat"`
	PF               primitive.Decimal128 `bson:"pf"`
	ActualKaatRate   primitive.Decimal128 `bson:"actual_kaat_rate"`
	DDCharge         primitive.Decimal128 `bson:"dd_charge"`
	AAANo            *string              `bson:"aaa_no"`
	TransportBiltyNo *string              `bson:"transport_bilty_no"`
	UpdatedBy        *int64               `bson:"updated_by"`
	UpdatedAt        time.Time            `bson:"updated_at"`
}

func (d *mongoKaatDoc) toModel() *models.ConsignmentKaat {
	return &models.ConsignmentKaat{
		GRNo:             d.GRNo,
		ChallanNo:        d.ChallanNo,
		RateID:           d.RateID,
		RateType:         d.RateType,
		RatePerKg:        fromDecimal128(d.RatePerKg),
		RatePerPkg:       fromDecimal128(d.RatePerPkg),
		Kaat:             fromDecimal128(d.Kaat),
		PF:               fromDecimal128(d.PF),
		ActualKaatRate:   fromDecimal128(d.ActualKaatRate),
		DDCharge:         fromDecimal128(d.DDCharge),
		AAANo:            d.AAANo,
		TransportBiltyNo: d.TransportBiltyNo,
		UpdatedBy:        d.UpdatedBy,
		UpdatedAt:        d.UpdatedAt,
	}
}

func kaatToDoc(k *models.ConsignmentKaat) bson.M {
	return bson.M{
		"challan_no":         k.ChallanNo,
		"rate_id":            k.RateID,
		"rate_type":          k.RateType,
		"rate_per_kg":        toDecimal128(k.RatePerKg),
		"rate_per_pkg":       toDecimal128(k.RatePerPkg),
		"kaat":               toDecimal128(k.Kaat),
		"pf":                 toDecimal128(k.PF),
		"actual_kaat_rate":   toDecimal128(k.ActualKaatRate),
		"dd_charge":          toDecimal128(k.DDCharge),
		"aaa_no":             k.AAANo,
		"transport_bilty_no": k.TransportBiltyNo,
		"updated_by":         k.UpdatedBy,
		"updated_at":         k.UpdatedAt,
	}
}

func (r *MongoKaatRepo) Upsert(k *models.ConsignmentKaat) error {
	ctx := context.Background()
	k.GRNo = strings.ToUpper(strings.TrimSpace(k.GRNo))
	if k.UpdatedAt.IsZero() {
		k.UpdatedAt = time.Now().UTC()
	}
	_, err := r.DB.Database(mongoDatabase).Collection("bilty_wise_kaat").
		UpdateOne(ctx,
			bson.M{"_id": k.GRNo},
			bson.M{"$set": kaatToDoc(k)},
			options.Update().SetUpsert(true),
		)
	return err
}

func (r *MongoKaatRepo) GetByChallan(challanNo string) ([]*models.ConsignmentKaat, error) {
	ctx := context.Background()
	cur, err := r.DB.Database(mongoDatabase).Collection("bilty_wise_kaat").
		Find(ctx, bson.M{"challan_no": challanNo}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []mongoKaatDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]*models.ConsignmentKaat, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toModel())
	}
	return result, nil
}

func (r *MongoKaatRepo) GetByGRNo(grNo string) (*models.ConsignmentKaat, error) {
	ctx := context.Background()
	var doc mongoKaatDoc
	err := r.DB.Database(mongoDatabase).Collection("bilty_wise_kaat").
		FindOne(ctx, bson.M{"_id": strings.ToUpper(strings.TrimSpace(grNo))}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoKaatRepo) Delete(grNo string) error {
	ctx := context.Background()
	_, err := r.DB.Database(mongoDatabase).Collection("bilty_wise_kaat").
		DeleteOne(ctx, bson.M{"_id": strings.ToUpper(strings.TrimSpace(grNo))})
	return err
}
