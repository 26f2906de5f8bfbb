package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Place struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image" bson:"image"`
	Address     string             `json:"address" bson:"address"`
	Location    Location           `json:"location" bson:"location"`
	Creator     primitive.ObjectID `json:"creator" bson:"creator"`
}

type Location struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}
