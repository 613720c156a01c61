package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
)

const minPasswordLength = 8

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
}

type meResponse struct {
	models.User
	Sections []string `json:"sections"`
}

func (req *userRequest) validate(creating bool) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("invalid email %q", req.Email)
	}
	if !api.ValidRole(req.Role) {
		return fmt.Errorf("unknown role %q", req.Role)
	}
	if (creating || req.Password != "") && len(req.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// MeHandler returns the caller and the admin sections their role may open
func (u User) MeHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := api.PrincipalFrom(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, nil)
		return
	}
	id, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := u.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		lookupFailed(w, "user", err)
		return
	}
	// the role on the stored account wins over the one in the token
	config.WriteData(w, http.StatusOK, meResponse{User: *dbResp, Sections: api.VisibleSections(dbResp.Details.Role)})
}

// UsersHandler lists every account
func (u User) UsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := databases.PageOptions(getLimit(r), getPage(r), bson.D{{Key: "user.name", Value: 1}})
	dbResp, err := u.DB.Find(ctx, bson.M{}, opts)
	if err != nil {
		config.ErrorStatus("failed to get users", http.StatusInternalServerError, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.User{}
	}
	config.WriteData(w, http.StatusOK, dbResp)
}

// UserCreateHandler creates a user
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(true); err != nil {
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// check if the user already exists
	n, err := u.DB.CountDocuments(ctx, bson.M{"user.email": req.Email})
	if err != nil {
		config.ErrorStatus("failed to check email", http.StatusInternalServerError, w, err)
		return
	}
	if n > 0 {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}
	user := models.User{
		ID: primitive.NewObjectID(),
		Details: models.UserDetails{
			Name:      req.Name,
			Email:     req.Email,
			Password:  string(hashedPassword),
			Role:      req.Role,
			Active:    req.Active == nil || *req.Active,
			CreatedAt: now(),
		},
	}
	user.Details.UpdatedAt = user.Details.CreatedAt

	if _, err := u.DB.InsertOne(ctx, user); err != nil {
		if errors.Is(err, databases.ErrDuplicateUser) {
			config.ErrorStatus("email already exists", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to insert user", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("user created", "email", user.Details.Email, "role", user.Details.Role, "by", author(r))
	config.WriteData(w, http.StatusCreated, user)
}

// UpdateUserByIDHandler changes the profile, role or password of a user
func (u User) UpdateUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r, "user_id")
	if !ok {
		return
	}
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(false); err != nil {
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, err)
		return
	}
	if p, _ := api.PrincipalFrom(r.Context()); p.ID == id.Hex() && (req.Role != p.Role || (req.Active != nil && !*req.Active)) {
		config.ErrorStatus("you cannot demote or disable your own account", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	n, err := u.DB.CountDocuments(ctx, bson.M{"user.email": req.Email, "_id": bson.M{"$ne": id}})
	if err != nil {
		config.ErrorStatus("failed to check email", http.StatusInternalServerError, w, err)
		return
	}
	if n > 0 {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	set := bson.M{
		"user.name":      req.Name,
		"user.email":     req.Email,
		"user.role":      req.Role,
		"user.updatedAt": now(),
	}
	if req.Active != nil {
		set["user.active"] = *req.Active
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
			return
		}
		set["user.password"] = string(hashedPassword)
	}

	if err := u.DB.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set, "$inc": bson.M{"__v": 1}}); err != nil {
		if errors.Is(err, databases.ErrDuplicateUser) {
			config.ErrorStatus("email already exists", http.StatusConflict, w, err)
			return
		}
		lookupFailed(w, "user", err)
		return
	}
	dbResp, err := u.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		lookupFailed(w, "user", err)
		return
	}
	config.WriteData(w, http.StatusOK, dbResp)
}

// DeleteUserByIDHandler removes a user account
func (u User) DeleteUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r, "user_id")
	if !ok {
		return
	}
	if p, _ := api.PrincipalFrom(r.Context()); p.ID == id.Hex() {
		config.ErrorStatus("you cannot delete your own account", http.StatusBadRequest, w, nil)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	n, err := u.DB.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete user", http.StatusInternalServerError, w, err)
		return
	}
	if n == 0 {
		config.ErrorStatus("user not found", http.StatusNotFound, w, nil)
		return
	}
	config.WriteData(w, http.StatusOK, map[string]string{"_id": id.Hex()})
}
