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

type MongoConsignmentRepo struct {
	DB *mongo.Client
}

func NewMongoConsignmentRepo(db *mongo.Client) *MongoConsignmentRepo {
	return &MongoConsignmentRepo{DB: db}
}

type mongoConsignmentDoc struct {
	ID            int64                `bson:"_id"`
	GRNo          string               `bson:"gr_no"`
	ToCityID      *int64               `bson:"to_city_id"`
	Wt            float64              `bson:"wt"`
	NoOfPkg       int                  `bson:"no_of_pkg"`
	TransportName *string              `bson:"transport_name"`
	TransportGST  *string              `bson:"transport_gst"`
	PaymentMode   string               `bson:"payment_mode"`
	DeliveryType  *string              `bson:"delivery_type"`
	Amount        primitive.Decimal128 `bson:"amount"`
	Consignor     *string              `bson:"consignor_name"`
	Consignee     *string              `bson:"consignee_name"`
	CreatedAt     time.Time            `bson:"created_at"`
}

func (d *mongoConsignmentDoc) toModel() *models.Consignment {
	return &models.Consignment{
		ID:            d.ID,
		GRNo:          d.GRNo,
		ToCityID:      d.ToCityID,
		Wt:            d.Wt,
		NoOfPkg:       d.NoOfPkg,
		TransportName: d.TransportName,
		TransportGST:  d.TransportGST,
		PaymentMode:   d.PaymentMode,
		DeliveryType:  d.DeliveryType,
		Amount:        fromDecimal128(d.Amount),
		Consignor:     d.Consignor,
		Consignee:     d.Consignee,
		CreatedAt:     d.CreatedAt,
	}
}

func (r *MongoConsignmentRepo) findConsignments(ctx context.Context, filter bson.M) ([]*models.Consignment, error) {
	cur, err := r.DB.Database(mongoDatabase).Collection("bilty").
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "gr_no", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []mongoConsignmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]*models.Consignment, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toModel())
	}
	return result, r.attachCities(ctx, result)
}

func (r *MongoConsignmentRepo) attachCities(ctx context.Context, consignments []*models.Consignment) error {
	var cityIDs []int64
	for _, c := range consignments {
		if c.ToCityID != nil {
			cityIDs = append(cityIDs, *c.ToCityID)
		}
	}
	if len(cityIDs) == 0 {
		return nil
	}
	cur, err := r.DB.Database(mongoDatabase).Collection("cities").
		Find(ctx, bson.M{"_id": bson.M{"$in": cityIDs}})
	if err != nil {
		return err
	}
	var cities []models.City
	if err := cur.All(ctx, &cities); err != nil {
		return err
	}
	byID := make(map[int64]*models.City, len(cities))
	for i := range cities {
		byID[cities[i].ID] = &cities[i]
	}
	for _, c := range consignments {
		if c.ToCityID != nil {
			c.City = byID[*c.ToCityID]
		}
	}
	return nil
}

func (r *MongoConsignmentRepo) GetByChallan(challanNo string) ([]*models.Consignment, error) {
	ctx := context.Background()

	cur, err := r.DB.Database(mongoDatabase).Collection("transit_details").
		Find(ctx, bson.M{"challan_no": challanNo})
	if err != nil {
		return nil, err
	}
	var transits []models.TransitDetail
	if err := cur.All(ctx, &transits); err != nil {
		return nil, err
	}
	if len(transits) == 0 {
		return nil, nil
	}

	grNos := make([]string, 0, len(transits))
	for _, t := range transits {
		grNos = append(grNos, t.GRNo)
	}
	return r.GetByGRNos(grNos)
}

func (r *MongoConsignmentRepo) GetByGRNos(grNos []string) ([]*models.Consignment, error) {
	ctx := context.Background()
	var result []*models.Consignment
	for _, chunk := range chunkStrings(grNos, keyBatchSize) {
		batch, err := r.findConsignments(ctx, bson.M{"gr_no": bson.M{"$in": normalizeAll(chunk)}})
		if err != nil {
			return nil, err
		}
		result = append(result, batch...)
	}
	return result, nil
}

func (r *MongoConsignmentRepo) GetChallan(challanNo string) (*models.Challan, error) {
	ctx := context.Background()
	var ch models.Challan
	err := r.DB.Database(mongoDatabase).Collection("challan_details").
		FindOne(ctx, bson.M{"challan_no": challanNo}).Decode(&ch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &ch, nil
}
