package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invitesmanager/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Salt         string    `bson:"salt"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	IsActive     bool      `bson:"is_active"`
	RoleIDs      []string  `bson:"role_ids"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d *userDocument) toDomain(roles []*domain.Role) *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Salt:         d.Salt,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		IsActive:     d.IsActive,
		Roles:        roles,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func NewUserRepository(db *mongo.Database) domain.UserRepository {
	return &userRepository{
		users: db.Collection(usersCollection),
		roles: db.Collection(rolesCollection),
	}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	doc := userDocument{
		ID:           u.ID,
		Username:     u.Username,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		Salt:         u.Salt,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsActive:     u.IsActive,
		RoleIDs:      []string{},
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		u.ID = ""
		return userConflict(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	roles, err := r.rolesByID(ctx, doc.RoleIDs)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(roles), nil
}

func (r *userRepository) rolesByID(ctx context.Context, ids []string) ([]*domain.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	var docs []roleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	roles := make([]*domain.Role, 0, len(docs))
	for i := range docs {
		roles = append(roles, docs[i].toDomain())
	}
	return roles, nil
}

func (r *userRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	total, err := r.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.PageSize))
	cur, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		roles, err := r.rolesByID(ctx, docs[i].RoleIDs)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, docs[i].toDomain(roles))
	}
	return users, int(total), nil
}

func (r *userRepository) ListBasic(ctx context.Context) ([]*domain.UserBasic, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "username": 1})
	cur, err := r.users.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.UserBasic, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.UserBasic{ID: d.ID, Username: d.Username})
	}
	return out, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	update := bson.M{"$set": bson.M{
		"username":      u.Username,
		"email":         strings.ToLower(u.Email),
		"password_hash": u.PasswordHash,
		"salt":          u.Salt,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"is_active":     u.IsActive,
		"updated_at":    u.UpdatedAt,
	}}
	res, err := r.users.UpdateByID(ctx, u.ID, update)
	if err != nil {
		return userConflict(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetRoles replaces the embedded role list in a single document write.
func (r *userRepository) SetRoles(ctx context.Context, userID string, roleIDs []string) error {
	if roleIDs == nil {
		roleIDs = []string{}
	}
	res, err := r.users.UpdateByID(ctx, userID, bson.M{"$set": bson.M{"role_ids": roleIDs}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
