package mongo

import (
	"context"
	"errors"

	"invitesmanager/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type roleDocument struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name"`
	IsActive bool   `bson:"is_active"`
}

func (d *roleDocument) toDomain() *domain.Role {
	return &domain.Role{ID: d.ID, Name: d.Name, IsActive: d.IsActive}
}

type roleRepository struct {
	roles *mongo.Collection
	users *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) domain.RoleRepository {
	return &roleRepository{
		roles: db.Collection(rolesCollection),
		users: db.Collection(usersCollection),
	}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	_, err := r.roles.InsertOne(ctx, roleDocument{ID: role.ID, Name: role.Name, IsActive: role.IsActive})
	if mongo.IsDuplicateKeyError(err) {
		role.ID = ""
		return domain.ErrConflict
	}
	return err
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *roleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Role, error) {
	var doc roleDocument
	if err := r.roles.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return doc.toDomain(), nil
}

func (r *roleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	return r.find(ctx, bson.M{})
}

func (r *roleRepository) find(ctx context.Context, filter bson.M) ([]*domain.Role, error) {
	cur, err := r.roles.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []roleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	roles := make([]*domain.Role, 0, len(docs))
	for i := range docs {
		roles = append(roles, docs[i].toDomain())
	}
	return roles, nil
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	res, err := r.roles.UpdateByID(ctx, role.ID, bson.M{"$set": bson.M{"name": role.Name, "is_active": role.IsActive}})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *roleRepository) Count(ctx context.Context) (int, error) {
	n, err := r.roles.CountDocuments(ctx, bson.M{})
	return int(n), err
}

func (r *roleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	var user struct {
		RoleIDs []string `bson:"role_ids"`
	}
	opts := options.FindOne().SetProjection(bson.M{"role_ids": 1})
	err := r.users.FindOne(ctx, bson.M{"_id": userID, "is_active": true}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Deleted and deactivated users hold no roles.
		return []*domain.Role{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(user.RoleIDs) == 0 {
		return []*domain.Role{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": user.RoleIDs}, "is_active": true})
}
