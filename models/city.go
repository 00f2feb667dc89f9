package models

type City struct {
	ID       int64  `json:"id" bson:"_id,omitempty" db:"id"`
	CityName string `json:"city_name" bson:"city_name" db:"city_name"`
	CityCode string `json:"city_code" bson:"city_code" db:"city_code"`
}
