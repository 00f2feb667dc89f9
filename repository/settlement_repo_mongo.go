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

type MongoSettlementRepo struct {
	DB *mongo.Client
}

func NewMongoSettlementRepo(db *mongo.Client) *MongoSettlementRepo {
	return &MongoSettlementRepo{DB: db}
}

type mongoSettlementDoc struct {
	ID              string               `bson:"_id"`
	ChallanNo       string               `bson:"challan_no"`
	AdminName       *string              `bson:"admin_name"`
	TransportName   string               `bson:"transport_name"`
	TransportGST    *string              `bson:"transport_gst"`
	GRNumbers       []string             `bson:"gr_numbers"`
	TotalBiltyCount int                  `bson:"total_bilty_count"`
	TotalAmount     primitive.Decimal128 `bson:"total_amount"`
	PrintedYet      bool                 `bson:"printed_yet"`
	PDFUrl          *string              `bson:"pdf_url"`
	CreatedBy       int64                `bson:"created_by"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       *time.Time           `bson:"updated_at"`
}

func (d *mongoSettlementDoc) toModel() *models.Settlement {
	return &models.Settlement{
		ID:              d.ID,
		ChallanNo:       d.ChallanNo,
		AdminName:       d.AdminName,
		TransportName:   d.TransportName,
		TransportGST:    d.TransportGST,
		GRNumbers:       d.GRNumbers,
		TotalBiltyCount: d.TotalBiltyCount,
		TotalAmount:     fromDecimal128(d.TotalAmount),
		PrintedYet:      d.PrintedYet,
		PDFUrl:          d.PDFUrl,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *MongoSettlementRepo) Create(s *models.Settlement) error {
	ctx := context.Background()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.Database(mongoDatabase).Collection("kaat_bill_master").
		InsertOne(ctx, bson.M{
			"_id":               s.ID,
			"challan_no":        s.ChallanNo,
			"admin_name":        s.AdminName,
			"transport_name":    s.TransportName,
			"transport_gst":     s.TransportGST,
			"gr_numbers":        s.GRNumbers,
			"total_bilty_count": s.TotalBiltyCount,
			"total_amount":      toDecimal128(s.TotalAmount),
			"printed_yet":       s.PrintedYet,
			"pdf_url":           s.PDFUrl,
			"created_by":        s.CreatedBy,
			"created_at":        s.CreatedAt,
		})
	return err
}

func (r *MongoSettlementRepo) Update(s *models.Settlement) error {
	ctx := context.Background()
	now := time.Now().UTC()
	s.UpdatedAt = &now
	_, err := r.DB.Database(mongoDatabase).Collection("kaat_bill_master").
		UpdateOne(ctx, bson.M{"_id": s.ID}, bson.M{"$set": bson.M{
			"admin_name":        s.AdminName,
			"transport_name":    s.TransportName,
			"transport_gst":     s.TransportGST,
			"gr_numbers":        s.GRNumbers,
			"total_bilty_count": s.TotalBiltyCount,
			"total_amount":      toDecimal128(s.TotalAmount),
			"updated_at":        s.UpdatedAt,
		}})
	return err
}

func (r *MongoSettlementRepo) Delete(id string) error {
	ctx := context.Background()
	_, err := r.DB.Database(mongoDatabase).Collection("kaat_bill_master").
		DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoSettlementRepo) GetByID(id string) (*models.Settlement, error) {
	ctx := context.Background()
	var doc mongoSettlementDoc
	err := r.DB.Database(mongoDatabase).Collection("kaat_bill_master").
		FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoSettlementRepo) GetByChallan(challanNo string) ([]*models.Settlement, error) {
	ctx := context.Background()
	cur, err := r.DB.Database(mongoDatabase).Collection("kaat_bill_master").
		Find(ctx, bson.M{"challan_no": challanNo}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []mongoSettlementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]*models.Settlement, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toModel())
	}
	return result, nil
}

func (r *MongoSettlementRepo) GetSettledCodes(challanNo string) ([]string, error) {
	settlements, err := r.GetByChallan(challanNo)
	if err != nil {
		return nil, err
	}
	var codes []string
	for _, s := range settlements {
		codes = append(codes, s.GRNumbers...)
	}
	return codes, nil
}

func (r *MongoSettlementRepo) MarkPrinted(id string, pdfURL string) error {
	ctx := context.Background()
	_, err := r.DB.Database(mongoDatabase).Collection("kaat_bill_master").
		UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
			"printed_yet": true,
			"pdf_url":     pdfURL,
			"updated_at":  time.Now().UTC(),
		}})
	return err
}
