package services

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"go-places/models"
	"go-places/utils/errors"
)

var (
	errUserExists         = errors.NewAPIError("User exists already, please login instead.", http.StatusUnprocessableEntity)
	errInvalidCredentials = errors.NewAPIError("Invalid credentials, could not log you in.", http.StatusForbidden)
)

const tokenLifetime = time.Hour

// UserService owns the users collection, credential hashing and token
// issuance.
type UserService struct {
	users     *mongo.Collection
	jwtSecret string
}

func NewUserService(db *mongo.Database, jwtSecret string) *UserService {
	return &UserService{
		users:     db.Collection("users"),
		jwtSecret: jwtSecret,
	}
}

// EnsureIndexes creates the unique email index. Email uniqueness is
// enforced at the store, not by a racy pre-read.
func (s *UserService) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// AuthResult is the payload returned by signup and login.
type AuthResult struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

func (s *UserService) issueToken(userID, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"exp":    time.Now().Add(tokenLifetime).Unix(),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// Signup hashes the password, stores the user and issues a token.
func (s *UserService) Signup(ctx context.Context, name, email, password, imagePath string) (*AuthResult, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "Signing up failed, please try again later.", http.StatusInternalServerError)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(passwordHash),
		Image:    imagePath,
		Places:   []primitive.ObjectID{},
	}

	res, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return nil, errUserExists
	}
	if err != nil {
		return nil, errors.Wrap(err, "Signing up failed, please try again later.", http.StatusInternalServerError)
	}

	userID := res.InsertedID.(primitive.ObjectID).Hex()
	tokenString, err := s.issueToken(userID, email)
	if err != nil {
		return nil, errors.Wrap(err, "Signing up failed, please try again later.", http.StatusInternalServerError)
	}

	return &AuthResult{UserID: userID, Email: email, Token: tokenString}, nil
}

// Login verifies credentials and issues a token. Lookup and password
// failures share one message so the response never reveals which half
// was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "Logging in failed, please try again later.", http.StatusInternalServerError)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	userID := user.ID.Hex()
	tokenString, err := s.issueToken(userID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "Logging in failed, please try again later.", http.StatusInternalServerError)
	}

	return &AuthResult{UserID: userID, Email: user.Email, Token: tokenString}, nil
}

// GetUsers lists all users with the password field projected out.
func (s *UserService) GetUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.users.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, errors.Wrap(err, "Fetching users failed, please try again later.", http.StatusInternalServerError)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "Fetching users failed, please try again later.", http.StatusInternalServerError)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
