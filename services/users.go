package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/models"
)

// AssignableRoles are the roles a case can be assigned to
var AssignableRoles = []string{models.RoleInvestigator, models.RoleSeniorInvestigator}

// Users is the user and role store
type Users struct {
	DB     databases.UserDatabase
	Resets *ResetTokens
	Clock  Clock
}

// GetUserProfile returns the profile for uid or ErrNotFound
func (s *Users) GetUserProfile(ctx context.Context, uid string) (*models.User, error) {
	oid, err := objectID("user", uid)
	if err != nil {
		return nil, err
	}
	user, err := s.DB.FindOne(ctx, databases.ByID(oid))
	if err != nil {
		if databases.IsNotFound(err) {
			return nil, notFound("user", uid)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	return user, nil
}

func (s *Users) findByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.DB.FindOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUsersByRole returns users holding any of roles
func (s *Users) GetUsersByRole(ctx context.Context, roles []string) ([]models.User, error) {
	if len(roles) == 0 {
		return []models.User{}, nil
	}
	users, err := s.DB.Find(ctx, bson.M{"role": bson.M{"$in": roles}}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// GetAllUsers returns every user ordered by username
func (s *Users) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.DB.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// GetAssignableUsers lists active investigators for the assignment picker
func (s *Users) GetAssignableUsers(ctx context.Context) ([]models.AssignableUser, error) {
	users, err := s.GetUsersByRole(ctx, AssignableRoles)
	if err != nil {
		return nil, err
	}
	out := make([]models.AssignableUser, 0, len(users))
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		out = append(out, models.AssignableUser{ID: u.ID.Hex(), Username: u.Username, Role: u.Role})
	}
	return out, nil
}

// CreateNewUser creates an account on behalf of actorID, who must be a Super Admin.
// The account gets a random password and must set its own through the emailed link.
func (s *Users) CreateNewUser(ctx context.Context, actorID string, data models.NewUserData) (string, error) {
	data.Email = normalizeEmail(data.Email)
	data.Username = strings.TrimSpace(data.Username)
	if err := checkStruct(data); err != nil {
		return "", err
	}

	actor, err := s.GetUserProfile(ctx, actorID)
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%w: unknown actor", ErrForbidden)
		}
		return "", err
	}
	if actor.Role != models.RoleSuperAdmin || !actor.IsActive {
		return "", fmt.Errorf("%w: only a Super Admin can create users", ErrForbidden)
	}

	n, err := s.DB.CountDocuments(ctx, bson.M{"email": data.Email})
	if err != nil {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if n > 0 {
		return "", fmt.Errorf("%w: a user with email %s already exists", ErrConflict, data.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash temporary password: %w", err)
	}

	now := dateTime(s.Clock.now())
	user := models.User{
		Username:           data.Username,
		FirstName:          data.FirstName,
		LastName:           data.LastName,
		Email:              data.Email,
		Role:               data.Role,
		IsActive:           true,
		PasswordHash:       string(hash),
		NeedsPasswordReset: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	id, err := s.DB.InsertOne(ctx, user)
	if err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	zap.S().Infow("user created", "userId", id, "role", data.Role, "createdBy", actorID)

	if s.Resets != nil {
		user.ID, _ = objectID("user", id)
		if err := s.Resets.Send(ctx, &user, true); err != nil {
			zap.S().Warnw("failed to send welcome email", "userId", id, "error", err)
		}
	}
	return id, nil
}

// UpdateUserProfile applies the self-service profile fields
func (s *Users) UpdateUserProfile(ctx context.Context, uid string, data models.ProfileUpdateData) error {
	oid, err := objectID("user", uid)
	if err != nil {
		return err
	}
	set := bson.M{"updatedAt": dateTime(s.Clock.now())}
	if data.FirstName != nil {
		if strings.TrimSpace(*data.FirstName) == "" {
			return invalid("firstName cannot be empty")
		}
		set["firstName"] = strings.TrimSpace(*data.FirstName)
	}
	if data.LastName != nil {
		if strings.TrimSpace(*data.LastName) == "" {
			return invalid("lastName cannot be empty")
		}
		set["lastName"] = strings.TrimSpace(*data.LastName)
	}
	if data.Phone != nil {
		set["phone"] = strings.TrimSpace(*data.Phone)
	}
	if data.Department != nil {
		set["department"] = strings.TrimSpace(*data.Department)
	}

	matched, err := s.DB.UpdateOne(ctx, databases.ByID(oid), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", uid, err)
	}
	if matched == 0 {
		return notFound("user", uid)
	}
	return nil
}

// RecordLogin stamps lastLoginAt. Failures are logged and swallowed.
func (s *Users) RecordLogin(ctx context.Context, uid string) {
	oid, err := objectID("user", uid)
	if err != nil {
		zap.S().Warnw("failed to record login", "userId", uid, "error", err)
		return
	}
	now := dateTime(s.Clock.now())
	if _, err := s.DB.UpdateOne(ctx, databases.ByID(oid), bson.M{"$set": bson.M{"lastLoginAt": now}}); err != nil {
		zap.S().Warnw("failed to record login", "userId", uid, "error", err)
	}
}

func (s *Users) setPassword(ctx context.Context, uid primitive.ObjectID, password string) error {
	if err := checkVar("password", password, "min=8"); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	matched, err := s.DB.UpdateOne(ctx, databases.ByID(uid), bson.M{"$set": bson.M{
		"passwordHash":       string(hash),
		"needsPasswordReset": false,
		"updatedAt":          dateTime(s.Clock.now()),
	}})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if matched == 0 {
		return notFound("user", uid.Hex())
	}
	return nil
}
