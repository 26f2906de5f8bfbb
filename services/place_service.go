package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"go-places/models"
	"go-places/utils/errors"
)

var (
	errPlaceNotFound     = errors.NewAPIError("Could not find a place for the provided placeId.", http.StatusNotFound)
	errUserPlacesMissing = errors.NewAPIError("Could not find a places for the provided userId.", http.StatusNotFound)
	errCreatorMissing    = errors.NewAPIError("Could not find user for provided id.", http.StatusNotFound)
	errNotPlaceOwnerEdit = errors.NewAPIError("You are not allowed to edit this place.", http.StatusUnauthorized)
	errNotPlaceOwnerDel  = errors.NewAPIError("You are not allowed to delete this place.", http.StatusUnauthorized)
)

// PlaceService owns the places collection and the dual-write
// create/delete flows that keep user.places in sync with
// place.creator.
type PlaceService struct {
	client *mongo.Client
	places *mongo.Collection
	users  *mongo.Collection
}

func NewPlaceService(db *mongo.Database) *PlaceService {
	return &PlaceService{
		client: db.Client(),
		places: db.Collection("places"),
		users:  db.Collection("users"),
	}
}

// Snapshot reads plus majority writes keep concurrent create/delete on
// the same user's place list from losing updates.
func (s *PlaceService) txnOptions() *options.TransactionOptions {
	return options.Transaction().
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Snapshot())
}

func (s *PlaceService) GetPlaceByID(ctx context.Context, placeID string) (*models.Place, error) {
	oid, err := primitive.ObjectIDFromHex(placeID)
	if err != nil {
		return nil, errPlaceNotFound
	}

	var place models.Place
	err = s.places.FindOne(ctx, bson.M{"_id": oid}).Decode(&place)
	if err == mongo.ErrNoDocuments {
		return nil, errPlaceNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "Something went wrong, could not find a place.", http.StatusInternalServerError)
	}
	return &place, nil
}

// GetPlacesByUserID resolves the user's place references, preserving
// the order of the user's places list.
func (s *PlaceService) GetPlacesByUserID(ctx context.Context, userID string) ([]models.Place, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errUserPlacesMissing
	}

	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errUserPlacesMissing
	}
	if err != nil {
		return nil, errors.Wrap(err, "Fetching places failed, please try again later.", http.StatusInternalServerError)
	}
	if len(user.Places) == 0 {
		return nil, errUserPlacesMissing
	}

	cursor, err := s.places.Find(ctx, bson.M{"_id": bson.M{"$in": user.Places}})
	if err != nil {
		return nil, errors.Wrap(err, "Fetching places failed, please try again later.", http.StatusInternalServerError)
	}
	var found []models.Place
	if err := cursor.All(ctx, &found); err != nil {
		return nil, errors.Wrap(err, "Fetching places failed, please try again later.", http.StatusInternalServerError)
	}
	if len(found) == 0 {
		return nil, errUserPlacesMissing
	}

	byID := make(map[primitive.ObjectID]models.Place, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]models.Place, 0, len(found))
	for _, id := range user.Places {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// CreatePlace persists the place and appends its id to the creator's
// places list inside one transaction. Either both writes commit or
// neither is visible.
func (s *PlaceService) CreatePlace(ctx context.Context, place *models.Place) (*models.Place, error) {
	serverErr := func(err error) error {
		return errors.Wrap(err, "Creating place failed, please try again.", http.StatusInternalServerError)
	}

	var creator models.User
	err := s.users.FindOne(ctx, bson.M{"_id": place.Creator}).Decode(&creator)
	if err == mongo.ErrNoDocuments {
		return nil, errCreatorMissing
	}
	if err != nil {
		return nil, serverErr(err)
	}

	place.ID = primitive.NewObjectID()

	sess, err := s.client.StartSession()
	if err != nil {
		return nil, serverErr(err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := s.places.InsertOne(sc, place); err != nil {
			return nil, err
		}
		res, err := s.users.UpdateOne(sc,
			bson.M{"_id": place.Creator},
			bson.M{"$push": bson.M{"places": place.ID}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, errCreatorMissing
		}
		return nil, nil
	}, s.txnOptions())
	if err != nil {
		if apiErr, ok := err.(*errors.APIError); ok {
			return nil, apiErr
		}
		return nil, serverErr(err)
	}

	return place, nil
}

// UpdatePlace mutates title and description only. The existence check
// runs before the creator check; a missing place can never be
// authorization-checked.
func (s *PlaceService) UpdatePlace(ctx context.Context, placeID, requesterID, title, description string) (*models.Place, error) {
	oid, err := primitive.ObjectIDFromHex(placeID)
	if err != nil {
		return nil, errPlaceNotFound
	}

	var place models.Place
	err = s.places.FindOne(ctx, bson.M{"_id": oid}).Decode(&place)
	if err == mongo.ErrNoDocuments {
		return nil, errPlaceNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "Something went wrong, could not update place.", http.StatusInternalServerError)
	}

	if place.Creator.Hex() != requesterID {
		return nil, errNotPlaceOwnerEdit
	}

	_, err = s.places.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"title": title, "description": description}})
	if err != nil {
		return nil, errors.Wrap(err, "Something went wrong, could not update place.", http.StatusInternalServerError)
	}

	place.Title = title
	place.Description = description
	return &place, nil
}

// DeletePlace removes the place and its reference in the creator's
// places list inside one transaction, then removes the image file.
// File removal is best-effort: a failed unlink is logged, never
// surfaced, since the delete itself already committed.
func (s *PlaceService) DeletePlace(ctx context.Context, placeID, requesterID string) error {
	serverErr := func(err error) error {
		return errors.Wrap(err, "Something went wrong, could not delete place.", http.StatusInternalServerError)
	}

	oid, err := primitive.ObjectIDFromHex(placeID)
	if err != nil {
		return errors.NewAPIError("Could not find place for this id.", http.StatusNotFound)
	}

	var place models.Place
	err = s.places.FindOne(ctx, bson.M{"_id": oid}).Decode(&place)
	if err == mongo.ErrNoDocuments {
		return errors.NewAPIError("Could not find place for this id.", http.StatusNotFound)
	}
	if err != nil {
		return serverErr(err)
	}

	if place.Creator.Hex() != requesterID {
		return errNotPlaceOwnerDel
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return serverErr(err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := s.places.DeleteOne(sc, bson.M{"_id": oid}); err != nil {
			return nil, err
		}
		if _, err := s.users.UpdateOne(sc,
			bson.M{"_id": place.Creator},
			bson.M{"$pull": bson.M{"places": oid}}); err != nil {
			return nil, err
		}
		return nil, nil
	}, s.txnOptions())
	if err != nil {
		return serverErr(err)
	}

	if err := os.Remove(place.Image); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove place image", "path", place.Image, "error", err)
	}
	return nil
}
