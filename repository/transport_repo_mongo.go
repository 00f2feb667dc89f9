package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/move-sure/ss-transport-sub002/models"
)

type MongoTransportRepo struct {
	DB *mongo.Client
}

func NewMongoTransportRepo(db *mongo.Client) *MongoTransportRepo {
	return &MongoTransportRepo{DB: db}
}

func (r *MongoTransportRepo) GetAdminGroups() ([]*models.AdminGroup, error) {
	return r.getAdminGroups(bson.M{})
}

func (r *MongoTransportRepo) GetAdminGroupsByIDs(ids []int64) ([]*models.AdminGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.getAdminGroups(bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoTransportRepo) getAdminGroups(filter bson.M) ([]*models.AdminGroup, error) {
	ctx := context.Background()
	db := r.DB.Database(mongoDatabase)

	cur, err := db.Collection("transport_admin").
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "admin_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var admins []*models.AdminGroup
	if err := cur.All(ctx, &admins); err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, nil
	}

	byID := make(map[int64]*models.AdminGroup, len(admins))
	adminIDs := make([]int64, 0, len(admins))
	for _, a := range admins {
		byID[a.ID] = a
		adminIDs = append(adminIDs, a.ID)
	}

	carrierCur, err := db.Collection("transport").
		Find(ctx, bson.M{"admin_id": bson.M{"$in": adminIDs}})
	if err != nil {
		return nil, err
	}
	var carriers []models.Carrier
	if err := carrierCur.All(ctx, &carriers); err != nil {
		return nil, err
	}

	if err := r.attachCities(ctx, carriers); err != nil {
		return nil, err
	}
	for _, c := range carriers {
		if c.AdminID != nil {
			if admin, ok := byID[*c.AdminID]; ok {
				admin.Carriers = append(admin.Carriers, c)
			}
		}
	}
	return admins, nil
}

func (r *MongoTransportRepo) attachCities(ctx context.Context, carriers []models.Carrier) error {
	var cityIDs []int64
	for _, c := range carriers {
		if c.CityID != nil {
			cityIDs = append(cityIDs, *c.CityID)
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
	byID := make(map[int64]models.City, len(cities))
	for _, c := range cities {
		byID[c.ID] = c
	}
	for i := range carriers {
		if carriers[i].CityID != nil {
			if city, ok := byID[*carriers[i].CityID]; ok {
				carriers[i].CityName = city.CityName
				carriers[i].CityCode = city.CityCode
			}
		}
	}
	return nil
}

func (r *MongoTransportRepo) GetCarrier(id int64) (*models.Carrier, error) {
	ctx := context.Background()
	var c models.Carrier
	err := r.DB.Database(mongoDatabase).Collection("transport").
		FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	carriers := []models.Carrier{c}
	if err := r.attachCities(ctx, carriers); err != nil {
		return nil, err
	}
	return &carriers[0], nil
}
